// Package sqlstore implements the ledger store on a relational database through GORM.
// Postgres is the production target; SQLite backs local runs and the tests.
package sqlstore

import (
	"fmt"
	"time"

	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Reference and refund uniqueness only applies to rows that have not failed, so that a
// failed attempt frees its reference for a retry.
var uniqueIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_account_reference
		ON transactions (account_id, reference_id) WHERE status <> 'failed'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_single_refund
		ON transactions (refunds_transaction_id) WHERE status <> 'failed' AND refunds_transaction_id <> ''`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_status_created
		ON transactions (status, created_at)`,
}

// Store implements the LedgerStore interface using GORM.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Make sure we conform to the interface
var _ storage.LedgerStore = (*Store)(nil)

// Open connects to the database named by driver ("postgres" or "sqlite") and migrates the schema.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported SQL driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	return New(db)
}

// New wraps an open connection and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.Account{}, &models.Transaction{}); err != nil {
		return nil, fmt.Errorf("failed to migrate ledger schema: %w", err)
	}
	for _, stmt := range uniqueIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("failed to create ledger index: %w", err)
		}
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}
