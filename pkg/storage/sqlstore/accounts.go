package sqlstore

import (
	"context"
	"errors"
	"math"

	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetAccount retrieves an account, creating a zero-balance row on first access.
func (s *Store) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	acct, err := s.readAccount(s.db.WithContext(ctx), accountID)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storage.Unavailable("failed to get account", err)
	}

	now := s.timestamp()
	created := &models.Account{AccountId: accountID, CreatedAt: now, UpdatedAt: now}
	// Another caller may have created it first.
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(created).Error; err != nil {
		return nil, storage.Unavailable("failed to create account", err)
	}

	acct, err = s.readAccount(s.db.WithContext(ctx), accountID)
	if err != nil {
		return nil, storage.Unavailable("failed to get account", err)
	}
	return acct, nil
}

func (s *Store) readAccount(db *gorm.DB, accountID string) (*models.Account, error) {
	var acct models.Account
	if err := db.First(&acct, "account_id = ?", accountID).Error; err != nil {
		return nil, err
	}
	return &acct, nil
}

// applyDelta performs the version-checked balance update. It keeps the balance within
// [0, MaxInt64], even when delta was computed from a stale read.
func (s *Store) applyDelta(db *gorm.DB, accountID string, expectedVersion, delta int64) error {
	q := db.Model(&models.Account{}).Where("account_id = ? AND version = ?", accountID, expectedVersion)
	if delta < 0 {
		q = q.Where("current_balance + ? >= 0", delta)
	} else {
		q = q.Where("current_balance <= ?", int64(math.MaxInt64)-delta)
	}
	res := q.Updates(map[string]any{
			"current_balance": gorm.Expr("current_balance + ?", delta),
			"version":         gorm.Expr("version + 1"),
			"updated_at":      s.timestamp(),
		})
	if res.Error != nil {
		return storage.Unavailable("failed to update account balance", res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	current, err := s.readAccount(db, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return storage.ErrVersionConflict
		}
		return storage.Unavailable("failed to get account", err)
	}
	if current.Version != expectedVersion {
		return storage.ErrVersionConflict
	}
	if err := storage.CheckDelta(current.Balance, delta); err != nil {
		return err
	}
	return storage.ErrInsufficientBalance
}

// UpdateBalance applies delta to the account if its version still equals expectedVersion.
func (s *Store) UpdateBalance(ctx context.Context, accountID string, expectedVersion, delta int64) (*models.Account, error) {
	db := s.db.WithContext(ctx)
	if err := s.applyDelta(db, accountID, expectedVersion, delta); err != nil {
		return nil, err
	}
	acct, err := s.readAccount(db, accountID)
	if err != nil {
		return nil, storage.Unavailable("failed to get account", err)
	}
	return acct, nil
}

// ListAccounts retrieves every account ordered by id.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.WithContext(ctx).Order("account_id").Find(&accounts).Error; err != nil {
		return nil, storage.Unavailable("failed to list accounts", err)
	}
	return accounts, nil
}
