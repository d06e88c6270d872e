package main

import (
	"github.com/spf13/cobra"

	"github.com/rahulmaharshi/manage-library-app/library/shared/shell/config"
)

type rootFlags struct {
	envFiles []string
	dbDriver string
	dbDSN    string
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "library",
		Short:         "Library borrowing service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringSliceVar(&flags.envFiles, "env-file", nil, "dotenv files to load before reading the environment (default .env)")
	root.PersistentFlags().StringVar(&flags.dbDriver, "db-driver", "", "database driver: pgx, postgres, sqlx or sqlite3 (overrides "+config.EnvDBDriver+")")
	root.PersistentFlags().StringVar(&flags.dbDSN, "db-dsn", "", "database connection string (overrides "+config.EnvDBDSN+")")

	root.AddCommand(
		newServeCommand(flags),
		newMigrateCommand(flags),
		newImportBooksCommand(flags),
	)

	return root
}

// loadConfig applies the command line overrides on top of the environment.
func (f *rootFlags) loadConfig() (config.AppConfig, error) {
	cfg, err := config.Load(f.envFiles...)
	if err != nil {
		return config.AppConfig{}, err
	}

	if f.dbDriver != "" {
		cfg.DBDriver = f.dbDriver
	}

	if f.dbDSN != "" {
		cfg.DBDSN = f.dbDSN
	}

	return cfg, cfg.Validate()
}
