package projector

import (
	"context"
	"errors"
	"time"

	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
)

// SweepStalePending fails pending transactions created more than olderThan ago with reason
// abandoned, releasing their references. It returns how many rows it failed.
func (p *Projector) SweepStalePending(ctx context.Context, olderThan time.Duration) (int, error) {
	stale, err := p.store.ListStalePending(ctx, olderThan)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		p.logger.InfoContext(ctx, "no stale pending transactions found")
		return 0, nil
	}

	p.logger.InfoContext(ctx, "found stale pending transactions", "count", len(stale))
	swept := 0
	var errs []error
	for i := range stale {
		tx := &stale[i]
		if _, err := p.store.Fail(ctx, tx, models.ReasonAbandoned); err != nil {
			if errors.Is(err, storage.ErrInvalidTransition) {
				// It was completed or failed since it was listed.
				continue
			}
			p.logger.ErrorContext(ctx, "failed to sweep transaction", "transaction", tx.Id, "error", err)
			errs = append(errs, err)
			continue
		}
		p.logger.WarnContext(ctx, "abandoned transaction failed", "transaction", tx.Id, "account", tx.AccountId, "created_at", tx.CreatedAt)
		swept++
	}
	p.metrics.ObserveSwept(swept)
	return swept, errors.Join(errs...)
}
