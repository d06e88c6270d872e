package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/rahulmaharshi/manage-library-app/library/shared/core"
)

const (
	EnvHTTPAddr            = "LIBRARY_HTTP_ADDR"
	EnvDBDriver            = "LIBRARY_DB_DRIVER"
	EnvDBDSN               = "LIBRARY_DB_DSN"
	EnvFineRatePerDay      = "LIBRARY_FINE_RATE_PER_DAY"
	EnvFineRoundUp         = "LIBRARY_FINE_ROUND_UP_PARTIAL_DAYS"
	EnvDefaultLoanDays     = "LIBRARY_DEFAULT_LOAN_DAYS"
	EnvMaxLoanDays         = "LIBRARY_MAX_LOAN_DAYS"
	EnvMaxConflictAttempts = "LIBRARY_MAX_CONFLICT_ATTEMPTS"
	EnvOTelEnabled         = "LIBRARY_OTEL_ENABLED"
	EnvOTelEndpoint        = "LIBRARY_OTEL_ENDPOINT"
	EnvLogLevel            = "LIBRARY_LOG_LEVEL"
	EnvShutdownTimeout     = "LIBRARY_SHUTDOWN_TIMEOUT"

	defaultHTTPAddr            = ":8080"
	defaultSQLiteDSN           = "file:library.db?_busy_timeout=5000&_foreign_keys=on"
	defaultMaxConflictAttempts = 2
	defaultOTelEndpoint        = "localhost:4317"
	defaultShutdownTimeout     = 10 * time.Second

	serviceName = "manage-library-app"
)

// fineRatePlaces is the scale of the fines column, fines are the rate times whole days.
const fineRatePlaces = 2

var (
	// ErrInvalidConfig is joined into every validation error of Load.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrFineRateTooPrecise is returned for a fine rate with more decimal places than stored fines keep.
	ErrFineRateTooPrecise = errors.New("the fine rate must have at most 2 decimal places")
)

// AppConfig is the complete runtime configuration of the service.
type AppConfig struct {
	HTTPAddr            string
	DBDriver            string
	DBDSN               string
	FineRatePerDay      decimal.Decimal
	FineRoundUp         bool
	DefaultLoanDays     int
	MaxLoanDays         int
	MaxConflictAttempts int
	OTelEnabled         bool
	OTelEndpoint        string
	LogLevel            slog.Level
	ShutdownTimeout     time.Duration
}

// Default returns the configuration used when no variable is set: SQLite in the working directory,
// no telemetry export.
func Default() AppConfig {
	return AppConfig{
		HTTPAddr:            defaultHTTPAddr,
		DBDriver:            DriverSQLite,
		DBDSN:               defaultSQLiteDSN,
		FineRatePerDay:      decimal.NewFromInt(core.DefaultFineRatePerDay),
		DefaultLoanDays:     core.DefaultLoanDurationDays,
		MaxLoanDays:         core.DefaultMaxLoanDurationDays,
		MaxConflictAttempts: defaultMaxConflictAttempts,
		OTelEndpoint:        defaultOTelEndpoint,
		LogLevel:            slog.LevelInfo,
		ShutdownTimeout:     defaultShutdownTimeout,
	}
}

// Load reads the given dotenv files, ".env" when none are named, and then the environment.
// Missing dotenv files are ignored.
func Load(envFiles ...string) (AppConfig, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	return FromEnvironment()
}

// FromEnvironment builds the configuration from the process environment on top of Default.
func FromEnvironment() (AppConfig, error) {
	cfg := Default()
	var errs []error

	cfg.HTTPAddr = stringFromEnv(EnvHTTPAddr, cfg.HTTPAddr)
	cfg.DBDriver = strings.ToLower(stringFromEnv(EnvDBDriver, cfg.DBDriver))
	cfg.DBDSN = stringFromEnv(EnvDBDSN, cfg.DBDSN)
	cfg.OTelEndpoint = stringFromEnv(EnvOTelEndpoint, cfg.OTelEndpoint)

	if raw, ok := os.LookupEnv(EnvFineRatePerDay); ok {
		rate, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvFineRatePerDay, err))
		}
		cfg.FineRatePerDay = rate
	}

	cfg.FineRoundUp = boolFromEnv(EnvFineRoundUp, cfg.FineRoundUp, &errs)
	cfg.OTelEnabled = boolFromEnv(EnvOTelEnabled, cfg.OTelEnabled, &errs)
	cfg.DefaultLoanDays = intFromEnv(EnvDefaultLoanDays, cfg.DefaultLoanDays, &errs)
	cfg.MaxLoanDays = intFromEnv(EnvMaxLoanDays, cfg.MaxLoanDays, &errs)
	cfg.MaxConflictAttempts = intFromEnv(EnvMaxConflictAttempts, cfg.MaxConflictAttempts, &errs)

	if raw, ok := os.LookupEnv(EnvLogLevel); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLogLevel, err))
		}
	}

	if raw, ok := os.LookupEnv(EnvShutdownTimeout); ok {
		timeout, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvShutdownTimeout, err))
		}
		cfg.ShutdownTimeout = timeout
	}

	if len(errs) > 0 {
		return AppConfig{}, errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

// Validate checks the cross-field rules of the configuration.
func (c AppConfig) Validate() error {
	var errs []error

	switch c.DBDriver {
	case DriverPGX, DriverPostgres, DriverSQLX, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("%s: unknown driver %q", EnvDBDriver, c.DBDriver))
	}

	if c.DBDSN == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", EnvDBDSN))
	}

	if c.FineRatePerDay.IsNegative() {
		errs = append(errs, fmt.Errorf("%s: %w", EnvFineRatePerDay, core.ErrNegativeFineRate))
	}

	if !c.FineRatePerDay.Equal(c.FineRatePerDay.Truncate(fineRatePlaces)) {
		errs = append(errs, fmt.Errorf("%s: %w", EnvFineRatePerDay, ErrFineRateTooPrecise))
	}

	if c.MaxLoanDays < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1", EnvMaxLoanDays))
	}

	if c.DefaultLoanDays < 1 || c.DefaultLoanDays > c.MaxLoanDays {
		errs = append(errs, fmt.Errorf("%s must be between 1 and %d", EnvDefaultLoanDays, c.MaxLoanDays))
	}

	if c.MaxConflictAttempts < 1 {
		errs = append(errs, fmt.Errorf("%s must be at least 1", EnvMaxConflictAttempts))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}

	return nil
}

// FinePolicy builds the fine policy described by the configuration.
func (c AppConfig) FinePolicy() (core.FinePolicy, error) {
	var opts []core.FinePolicyOption
	if c.FineRoundUp {
		opts = append(opts, core.WithPartialDaysRoundedUp())
	}

	return core.NewFinePolicy(c.FineRatePerDay, opts...)
}

func stringFromEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}

	return fallback
}

func intFromEnv(key string, fallback int, errs *[]error) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}

	return value
}

func boolFromEnv(key string, fallback bool, errs *[]error) bool {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}

	return value
}
