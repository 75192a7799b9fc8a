// Package config loads process settings from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	DriverDynamoDB = "dynamodb"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config holds every setting read from the environment.
type Config struct {
	HTTPPort      string
	LogLevel      slog.Level
	StorageDriver string
	DatabaseDSN   string

	AccountsTableName     string
	TransactionsTableName string
	ClaimsTableName       string
	SQSQueueURL           string

	WalletMaxAttempts int
	StalePendingAfter time.Duration
	MetricsNamespace  string
}

// Load reads the given .env files (".env" when none are named) into the environment
// and builds the Config from it. A missing default .env file is not an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds the Config from lookup, applying defaults and validating the result.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		HTTPPort:              get("HTTP_PORT", "8080"),
		StorageDriver:         strings.ToLower(get("STORAGE_DRIVER", DriverDynamoDB)),
		DatabaseDSN:           get("DATABASE_DSN", ""),
		AccountsTableName:     get("DYNAMODB_ACCOUNTS_TABLE_NAME", ""),
		TransactionsTableName: get("DYNAMODB_TRANSACTIONS_TABLE_NAME", ""),
		ClaimsTableName:       get("DYNAMODB_CLAIMS_TABLE_NAME", ""),
		SQSQueueURL:           get("SQS_QUEUE_URL", ""),
		MetricsNamespace:      get("METRICS_NAMESPACE", "coin_ledger"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(get("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	attempts, err := strconv.Atoi(get("WALLET_MAX_ATTEMPTS", "3"))
	if err != nil || attempts < 1 {
		return nil, fmt.Errorf("invalid WALLET_MAX_ATTEMPTS %q", get("WALLET_MAX_ATTEMPTS", ""))
	}
	cfg.WalletMaxAttempts = attempts

	cfg.StalePendingAfter, err = time.ParseDuration(get("STALE_PENDING_AFTER", "15m"))
	if err != nil || cfg.StalePendingAfter <= 0 {
		return nil, fmt.Errorf("invalid STALE_PENDING_AFTER %q", get("STALE_PENDING_AFTER", ""))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings the selected storage driver needs are present.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case DriverDynamoDB:
		if c.AccountsTableName == "" || c.TransactionsTableName == "" || c.ClaimsTableName == "" {
			return errors.New("one or more DynamoDB table name environment variables are not set")
		}
	case DriverPostgres, DriverSQLite:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN must be set for the %s driver", c.StorageDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

// NewLogger returns a JSON slog logger at the configured level.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}
