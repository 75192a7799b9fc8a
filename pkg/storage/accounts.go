package storage

import (
	"context"

	"github.com/chris/coin-wallet-ledger/pkg/models"
)

// AccountStore defines the interface for reading and mutating account balances.
type AccountStore interface {
	// GetAccount returns the account, creating a zero-balance account on first access.
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)

	// UpdateBalance applies delta to the balance and increments the version, but only
	// if the stored version equals expectedVersion. It returns ErrVersionConflict otherwise,
	// and ErrInsufficientBalance if the version matched but the balance would go negative.
	UpdateBalance(ctx context.Context, accountID string, expectedVersion, delta int64) (*models.Account, error)

	// ListAccounts retrieves every account in the store.
	ListAccounts(ctx context.Context) ([]models.Account, error)
}
