package storage

import (
	"context"
	"time"

	"github.com/chris/coin-wallet-ledger/pkg/models"
)

// TransactionReader defines the interface for reading transaction data.
type TransactionReader interface {
	// GetTransaction retrieves a transaction by its ID.
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)

	// FindByReference retrieves the non-failed transaction holding referenceID on the account.
	FindByReference(ctx context.Context, accountID, referenceID string) (*models.Transaction, error)

	// FindRefund retrieves the non-failed refund of the given transaction, if any.
	FindRefund(ctx context.Context, originalTxID string) (*models.Transaction, error)

	// ListTransactions retrieves the full history of an account ordered by creation time.
	ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error)

	// ListStalePending retrieves pending transactions created more than olderThan ago.
	ListStalePending(ctx context.Context, olderThan time.Duration) ([]models.Transaction, error)
}
