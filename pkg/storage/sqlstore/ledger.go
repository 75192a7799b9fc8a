package sqlstore

import (
	"context"
	"errors"

	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Append inserts a pending transaction. The partial unique indexes reject a second
// non-failed row for the same reference or the same refunded original.
func (s *Store) Append(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	out := *tx
	out.Id = uuid.New().String()
	out.Status = models.PENDING
	out.CreatedAt = s.timestamp()
	out.BalanceAfter = nil
	out.CompletedAt = nil
	out.FailureReason = ""

	err := s.db.WithContext(ctx).Create(&out).Error
	if err == nil {
		return &out, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, storage.Unavailable("failed to insert transaction", err)
	}

	// Both indexes report the same error; tell them apart by looking at what is there.
	if _, ferr := s.FindByReference(ctx, out.AccountId, out.ReferenceId); ferr == nil {
		return nil, storage.ErrDuplicateReference
	}
	if out.RefundsTransactionId != "" {
		return nil, storage.ErrAlreadyRefunded
	}
	return nil, storage.ErrDuplicateReference
}

// Complete applies delta to the account and completes the transaction in one database transaction.
func (s *Store) Complete(ctx context.Context, tx *models.Transaction, expectedVersion, delta int64) (*models.Transaction, *models.Account, error) {
	var completed models.Transaction
	var updated *models.Account

	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		if err := s.applyDelta(db, tx.AccountId, expectedVersion, delta); err != nil {
			return err
		}
		acct, err := s.readAccount(db, tx.AccountId)
		if err != nil {
			return storage.Unavailable("failed to get account", err)
		}
		updated = acct

		now := s.timestamp()
		res := db.Model(&models.Transaction{}).
			Where("transaction_id = ? AND status = ?", tx.Id, models.PENDING).
			Updates(map[string]any{
				"status":        models.COMPLETED,
				"balance_after": acct.Balance,
				"completed_at":  now,
			})
		if res.Error != nil {
			return storage.Unavailable("failed to complete transaction", res.Error)
		}
		if res.RowsAffected == 0 {
			return storage.ErrInvalidTransition
		}

		if err := db.First(&completed, "transaction_id = ?", tx.Id).Error; err != nil {
			return storage.Unavailable("failed to get transaction", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &completed, updated, nil
}

// Fail moves a pending transaction to failed, which releases its reference.
func (s *Store) Fail(ctx context.Context, tx *models.Transaction, reason models.FailureReason) (*models.Transaction, error) {
	db := s.db.WithContext(ctx)
	res := db.Model(&models.Transaction{}).
		Where("transaction_id = ? AND status = ?", tx.Id, models.PENDING).
		Updates(map[string]any{
			"status":         models.FAILED,
			"failure_reason": reason,
			"completed_at":   s.timestamp(),
		})
	if res.Error != nil {
		return nil, storage.Unavailable("failed to fail transaction", res.Error)
	}

	failed, err := s.GetTransaction(ctx, tx.Id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, storage.ErrInvalidTransition
	}
	return failed, nil
}
