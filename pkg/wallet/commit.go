package wallet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
)

// begin appends the pending row. A reference that is already taken yields the row that
// holds it together with ErrDuplicateReference.
func (s *Service) begin(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	pending, err := s.store.Append(ctx, tx)
	if err == nil {
		return pending, nil
	}

	switch {
	case errors.Is(err, storage.ErrDuplicateReference):
		existing, ferr := s.store.FindByReference(ctx, tx.AccountId, tx.ReferenceId)
		if ferr != nil {
			return nil, fmt.Errorf("%w: %w", ErrDuplicateReference, ferr)
		}
		return existing, ErrDuplicateReference
	case errors.Is(err, storage.ErrAlreadyRefunded):
		return nil, fmt.Errorf("%w: %w", ErrNotRefundable, err)
	}
	return nil, err
}

// commit applies the pending row's amount to its account and completes the row, retrying
// on version conflicts. When the balance cannot absorb the amount the row is failed with
// reason and overdraw is returned alongside it.
func (s *Service) commit(ctx context.Context, op string, pending *models.Transaction, overdraw error, reason models.FailureReason) (*models.Transaction, error) {
	completed, err := backoff.Retry(ctx, func() (*models.Transaction, error) {
		acct, err := s.store.GetAccount(ctx, pending.AccountId)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if err := storage.CheckDelta(acct.Balance, pending.Amount); err != nil {
			return nil, backoff.Permanent(err)
		}

		done, _, err := s.store.Complete(ctx, pending, acct.Version, pending.Amount)
		if err != nil {
			if errors.Is(err, storage.ErrVersionConflict) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return done, nil
	},
		backoff.WithBackOff(s.newBackOff()),
		backoff.WithMaxTries(s.maxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.metrics.ObserveConflict(op)
			s.logger.DebugContext(ctx, "version conflict, retrying", "operation", op, "transaction", pending.Id, "backoff", next)
		}),
	)
	if err == nil {
		return completed, nil
	}

	switch {
	case errors.Is(err, storage.ErrInsufficientBalance):
		return s.fail(ctx, pending, reason, overdraw)
	case errors.Is(err, storage.ErrBalanceOverflow):
		return s.fail(ctx, pending, models.ReasonBalanceOverflow, fmt.Errorf("%w: balance would exceed %d coins", ErrValidation, int64(math.MaxInt64)))
	case errors.Is(err, storage.ErrVersionConflict):
		return s.fail(ctx, pending, models.ReasonConcurrencyExhausted, ErrConcurrencyExhausted)
	}

	// Do not leave the row pending. If this fails too the stale-pending sweep will.
	failReason := models.ReasonStorageUnavailable
	if ctx.Err() != nil {
		failReason = models.ReasonAbandoned
	}
	if _, ferr := s.store.Fail(context.WithoutCancel(ctx), pending, failReason); ferr != nil {
		s.logger.WarnContext(ctx, "failed to mark transaction failed", "transaction", pending.Id, "error", ferr)
	}
	if !errors.Is(err, ErrStorageUnavailable) {
		err = storage.Unavailable(op, err)
	}
	return nil, err
}

// fail records a business failure on the row and returns it with kind.
func (s *Service) fail(ctx context.Context, pending *models.Transaction, reason models.FailureReason, kind error) (*models.Transaction, error) {
	failed, err := s.store.Fail(ctx, pending, reason)
	if err != nil {
		return nil, fmt.Errorf("%w (recording failure: %w)", kind, err)
	}
	return failed, kind
}

func (s *Service) observe(ctx context.Context, op string, tx *models.Transaction, err error) {
	code := Code(err)
	s.metrics.ObserveOperation(op, code)

	attrs := []any{"operation", op, "outcome", code}
	if tx != nil {
		attrs = append(attrs, "transaction", tx.Id, "account", tx.AccountId, "amount", tx.Amount)
	}
	switch code {
	case CodeOK:
		s.logger.InfoContext(ctx, "wallet operation completed", attrs...)
	case CodeStorageUnavailable, CodeConcurrencyExhausted, CodeInternal:
		s.logger.ErrorContext(ctx, "wallet operation failed", append(attrs, "error", err)...)
	default:
		s.logger.WarnContext(ctx, "wallet operation rejected", append(attrs, "error", err)...)
	}
}
