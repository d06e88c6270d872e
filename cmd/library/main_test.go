package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahulmaharshi/manage-library-app/library/shared/shell/config"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

func sqliteFlags(t *testing.T) []string {
	t.Helper()

	dir := t.TempDir()
	dsn := "file:" + filepath.Join(dir, "library.db") + "?_busy_timeout=5000"

	return []string{
		"--env-file", filepath.Join(dir, "missing.env"),
		"--db-driver", config.DriverSQLite,
		"--db-dsn", dsn,
	}
}

func Test_Migrate_CreatesSchema(t *testing.T) {
	// arrange
	flags := sqliteFlags(t)

	// act
	out, err := runCLI(t, append([]string{"migrate"}, flags...)...)

	// assert
	require.NoError(t, err)
	assert.Contains(t, out, "schema ready (sqlite3)")
}

func Test_ImportBooks_ReportsImportedAndRejectedRows(t *testing.T) {
	// arrange
	flags := sqliteFlags(t)
	_, err := runCLI(t, append([]string{"migrate"}, flags...)...)
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "books.csv")
	csv := "ISBN,Book-Title,Book-Author,Year-Of-Publication,Publisher\n" +
		"0195153448,Classical Mythology,Mark P. O. Morford,2002,Oxford University Press\n" +
		"0002005018,Clara Callan,Richard Bruce Wright,2001,HarperFlamingo Canada\n" +
		"0060973129,Decision in Normandy,,1991,HarperPerennial\n"
	require.NoError(t, os.WriteFile(file, []byte(csv), 0o600))

	// act
	out, err := runCLI(t, append([]string{"import-books", file}, flags...)...)

	// assert
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 books, rejected 1 rows")
	assert.Contains(t, out, "line 4 (0060973129): InvalidBook")
}

func Test_ImportBooks_RequiresFileArgument(t *testing.T) {
	// act
	_, err := runCLI(t, append([]string{"import-books"}, sqliteFlags(t)...)...)

	// assert
	assert.Error(t, err)
}

func Test_LoadConfig_RejectsUnknownDriver(t *testing.T) {
	// arrange
	flags := &rootFlags{
		envFiles: []string{filepath.Join(t.TempDir(), "missing.env")},
		dbDriver: "oracle",
	}

	// act
	_, err := flags.loadConfig()

	// assert
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func Test_LoadConfig_FlagsOverrideEnvironment(t *testing.T) {
	// arrange
	t.Setenv(config.EnvDBDriver, config.DriverPGX)
	t.Setenv(config.EnvDBDSN, "postgres://library@localhost/library")
	flags := &rootFlags{
		envFiles: []string{filepath.Join(t.TempDir(), "missing.env")},
		dbDriver: config.DriverSQLite,
		dbDSN:    "file::memory:",
	}

	// act
	cfg, err := flags.loadConfig()

	// assert
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "file::memory:", cfg.DBDSN)
}
