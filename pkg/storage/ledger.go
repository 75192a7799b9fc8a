package storage

import (
	"context"

	"github.com/chris/coin-wallet-ledger/pkg/models"
)

// LedgerWriter defines the privileged interface for appending to the ledger and moving
// transactions through their lifecycle. Only the wallet service and the projector use it.
type LedgerWriter interface {
	// Append inserts a new pending transaction and claims its reference id in a single
	// atomic write. Refund transactions also claim the refund slot of the original.
	Append(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)

	// Complete atomically applies delta to the account (conditioned on expectedVersion)
	// and marks the pending transaction completed with its balance snapshot.
	// Either both writes happen or neither does.
	Complete(ctx context.Context, tx *models.Transaction, expectedVersion, delta int64) (*models.Transaction, *models.Account, error)

	// Fail marks a pending transaction failed and releases its claims.
	Fail(ctx context.Context, tx *models.Transaction, reason models.FailureReason) (*models.Transaction, error)
}
