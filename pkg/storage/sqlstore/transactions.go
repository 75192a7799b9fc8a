package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
	"gorm.io/gorm"
)

func (s *Store) first(ctx context.Context, query string, args ...any) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.WithContext(ctx).Where(query, args...).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrTransactionNotFound
		}
		return nil, storage.Unavailable("failed to get transaction", err)
	}
	return &tx, nil
}

// GetTransaction retrieves a transaction by its ID.
func (s *Store) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	return s.first(ctx, "transaction_id = ?", txID)
}

// FindByReference retrieves the non-failed transaction holding the account's reference id.
func (s *Store) FindByReference(ctx context.Context, accountID, referenceID string) (*models.Transaction, error) {
	return s.first(ctx, "account_id = ? AND reference_id = ? AND status <> ?", accountID, referenceID, models.FAILED)
}

// FindRefund retrieves the non-failed refund of the original transaction.
func (s *Store) FindRefund(ctx context.Context, originalTxID string) (*models.Transaction, error) {
	return s.first(ctx, "refunds_transaction_id = ? AND status <> ?", originalTxID, models.FAILED)
}

// ListTransactions returns the full history of an account ordered by creation time.
func (s *Store) ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Find(&txs).Error
	if err != nil {
		return nil, storage.Unavailable("failed to list transactions", err)
	}
	return txs, nil
}

// ListStalePending returns transactions that have been pending for longer than olderThan.
func (s *Store) ListStalePending(ctx context.Context, olderThan time.Duration) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.PENDING, s.timestamp().Add(-olderThan)).
		Order("created_at ASC").
		Find(&txs).Error
	if err != nil {
		return nil, storage.Unavailable("failed to list stale pending transactions", err)
	}
	return txs, nil
}
