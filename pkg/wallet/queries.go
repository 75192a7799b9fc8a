package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
)

// GetBalance returns the cached balance. It never triggers reconciliation.
func (s *Service) GetBalance(ctx context.Context, accountID string) (int64, error) {
	acct, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

// GetAccount returns the account, creating it on first access.
func (s *Service) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: accountId is required", ErrValidation)
	}
	return s.store.GetAccount(ctx, accountID)
}

// GetTransaction returns a transaction with RefundedBy filled in.
func (s *Service) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	tx, err := s.store.GetTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	if tx.Status != models.COMPLETED || tx.Kind == models.REFUND {
		return tx, nil
	}

	refund, err := s.store.FindRefund(ctx, tx.Id)
	switch {
	case err == nil:
		tx.RefundedBy = refund.Id
	case !errors.Is(err, storage.ErrTransactionNotFound):
		return nil, err
	}
	return tx, nil
}

// ListTransactions returns the account history in creation order with RefundedBy filled in.
func (s *Service) ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: accountId is required", ErrValidation)
	}
	txs, err := s.store.ListTransactions(ctx, accountID)
	if err != nil {
		return nil, err
	}

	refundedBy := make(map[string]string)
	for _, tx := range txs {
		if tx.RefundsTransactionId != "" && tx.Status != models.FAILED {
			refundedBy[tx.RefundsTransactionId] = tx.Id
		}
	}
	for i := range txs {
		txs[i].RefundedBy = refundedBy[txs[i].Id]
	}
	return txs, nil
}
