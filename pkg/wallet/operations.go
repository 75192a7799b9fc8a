package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
)

func validateKeys(accountID, referenceID string) error {
	if accountID == "" {
		return fmt.Errorf("%w: accountId is required", ErrValidation)
	}
	if referenceID == "" {
		return fmt.Errorf("%w: referenceId is required", ErrValidation)
	}
	return nil
}

// Credit adds amount coins to the account. kind defaults to purchase; adjustment is also
// accepted.
func (s *Service) Credit(ctx context.Context, accountID string, amount int64, referenceID string, kind models.TransactionKind) (tx *models.Transaction, err error) {
	defer func() { s.observe(ctx, "credit", tx, err) }()

	if kind == "" {
		kind = models.PURCHASE
	}
	if verr := validateKeys(accountID, referenceID); verr != nil {
		return nil, verr
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if kind != models.PURCHASE && kind != models.ADJUSTMENT {
		return nil, fmt.Errorf("%w: kind %q cannot be credited", ErrValidation, kind)
	}

	pending, err := s.begin(ctx, &models.Transaction{AccountId: accountID, Kind: kind, Amount: amount, ReferenceId: referenceID})
	if err != nil {
		return pending, err
	}
	return s.commit(ctx, "credit", pending, ErrInsufficientBalance, models.ReasonInsufficientBalance)
}

// Debit removes amount coins from the account. kind defaults to spend; adjustment is also
// accepted. If the balance is too low the failed transaction is returned together with
// ErrInsufficientBalance.
func (s *Service) Debit(ctx context.Context, accountID string, amount int64, referenceID string, kind models.TransactionKind) (tx *models.Transaction, err error) {
	defer func() { s.observe(ctx, "debit", tx, err) }()

	if kind == "" {
		kind = models.SPEND
	}
	if verr := validateKeys(accountID, referenceID); verr != nil {
		return nil, verr
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if kind != models.SPEND && kind != models.ADJUSTMENT {
		return nil, fmt.Errorf("%w: kind %q cannot be debited", ErrValidation, kind)
	}

	pending, err := s.begin(ctx, &models.Transaction{AccountId: accountID, Kind: kind, Amount: -amount, ReferenceId: referenceID})
	if err != nil {
		return pending, err
	}
	return s.commit(ctx, "debit", pending, ErrInsufficientBalance, models.ReasonInsufficientBalance)
}

// Refund reverses a completed purchase or spend with a new refund transaction.
//
// Only completed purchase and spend transactions can be refunded, once. Everything else
// yields ErrNotRefundable: pending and failed rows, refunds themselves, and adjustments
// (including adjustments made through Credit or Debit), which are corrected with a
// further adjustment instead. A refund that would make the balance negative fails with
// ErrRefundWouldOverdraw; it has to be settled with a manual adjustment.
func (s *Service) Refund(ctx context.Context, originalTxID, referenceID string) (tx *models.Transaction, err error) {
	defer func() { s.observe(ctx, "refund", tx, err) }()

	if originalTxID == "" {
		return nil, fmt.Errorf("%w: transactionId is required", ErrValidation)
	}
	if referenceID == "" {
		return nil, fmt.Errorf("%w: referenceId is required", ErrValidation)
	}

	original, err := s.store.GetTransaction(ctx, originalTxID)
	if err != nil {
		return nil, err
	}
	if original.Status != models.COMPLETED {
		return nil, fmt.Errorf("%w: transaction %s is %s", ErrNotRefundable, original.Id, original.Status)
	}
	if original.Kind != models.PURCHASE && original.Kind != models.SPEND {
		return nil, fmt.Errorf("%w: %s transactions cannot be refunded", ErrNotRefundable, original.Kind)
	}

	existing, err := s.store.FindRefund(ctx, original.Id)
	switch {
	case err == nil:
		if existing.ReferenceId == referenceID {
			return existing, ErrDuplicateReference
		}
		return nil, fmt.Errorf("%w: already refunded by %s", ErrNotRefundable, existing.Id)
	case !errors.Is(err, storage.ErrTransactionNotFound):
		return nil, err
	}

	pending, err := s.begin(ctx, &models.Transaction{
		AccountId:            original.AccountId,
		Kind:                 models.REFUND,
		Amount:               -original.Amount,
		ReferenceId:          referenceID,
		RefundsTransactionId: original.Id,
		Description:          fmt.Sprintf("refund of %s", original.Id),
	})
	if err != nil {
		return pending, err
	}
	return s.commit(ctx, "refund", pending, ErrRefundWouldOverdraw, models.ReasonRefundWouldOverdraw)
}

// Adjust records an operator correction of any non-zero signed amount.
func (s *Service) Adjust(ctx context.Context, accountID string, amount int64, referenceID, description string) (tx *models.Transaction, err error) {
	defer func() { s.observe(ctx, "adjust", tx, err) }()

	if verr := validateKeys(accountID, referenceID); verr != nil {
		return nil, verr
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: amount must be non-zero", ErrValidation)
	}

	pending, err := s.begin(ctx, &models.Transaction{
		AccountId:   accountID,
		Kind:        models.ADJUSTMENT,
		Amount:      amount,
		ReferenceId: referenceID,
		Description: description,
	})
	if err != nil {
		return pending, err
	}
	return s.commit(ctx, "adjust", pending, ErrInsufficientBalance, models.ReasonInsufficientBalance)
}
