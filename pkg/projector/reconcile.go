package projector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
	"github.com/chris/coin-wallet-ledger/pkg/wallet"
	"golang.org/x/sync/errgroup"
)

// Reconciliation outcomes reported to metrics.
const (
	OutcomeConsistent = "consistent"
	OutcomeCorrected  = "corrected"
	OutcomeFailed     = "failed"
	OutcomeHeld       = "held"
)

// Reconcile compares the cached balance with the ledger. On divergence it logs an audit
// error. A cache below the ledger is corrected by appending a completed adjustment of
// cached minus recomputed, committed under the version that was compared, so the ledger
// sums to the cached balance again and the correction stays visible in the history.
// A cache above the ledger would mint coins the ledger never recorded; it is reported
// with NeedsReview set and left for an operator to settle with an adjustment.
func (p *Projector) Reconcile(ctx context.Context, accountID string) (*models.ReconciliationReport, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: accountId is required", wallet.ErrValidation)
	}

	report, err := backoff.Retry(ctx, func() (*models.ReconciliationReport, error) {
		report, err := p.reconcileOnce(ctx, accountID)
		if err != nil && !errors.Is(err, storage.ErrVersionConflict) {
			return nil, backoff.Permanent(err)
		}
		return report, err
	},
		backoff.WithBackOff(p.newBackOff()),
		backoff.WithMaxTries(p.maxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			p.metrics.ObserveConflict("reconcile")
			p.logger.DebugContext(ctx, "reconciliation raced a balance change, retrying", "account", accountID, "backoff", next)
		}),
	)
	if err != nil {
		p.metrics.ObserveReconciliation(OutcomeFailed, 0)
		if errors.Is(err, storage.ErrVersionConflict) {
			err = fmt.Errorf("%w: %w", wallet.ErrConcurrencyExhausted, err)
		}
		p.logger.ErrorContext(ctx, "reconciliation failed", "account", accountID, "error", err)
		return nil, err
	}

	switch {
	case report.NeedsReview:
		p.metrics.ObserveReconciliation(OutcomeHeld, 0)
		p.logger.WarnContext(ctx, "cached balance above ledger held for review", "account", accountID, "drift", report.Drift)
	case report.Diverged():
		p.metrics.ObserveReconciliation(OutcomeCorrected, report.Drift)
		p.logger.InfoContext(ctx, "balance drift corrected", "account", accountID, "adjustment", report.Adjustment.Id, "drift", report.Drift)
	default:
		p.metrics.ObserveReconciliation(OutcomeConsistent, 0)
	}
	return report, nil
}

func (p *Projector) reconcileOnce(ctx context.Context, accountID string) (*models.ReconciliationReport, error) {
	acct, err := p.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	recomputed, err := p.Recompute(ctx, accountID)
	if err != nil {
		return nil, err
	}

	report := &models.ReconciliationReport{
		AccountId:    accountID,
		Cached:       acct.Balance,
		Recomputed:   recomputed,
		Drift:        acct.Balance - recomputed,
		ReconciledAt: p.now().UTC(),
	}
	if !report.Diverged() {
		return report, nil
	}

	p.logger.ErrorContext(ctx, "cached balance diverges from ledger",
		"account", accountID,
		"cached", acct.Balance,
		"recomputed", recomputed,
		"version", acct.Version,
	)
	if report.Drift > 0 {
		report.NeedsReview = true
		return report, nil
	}

	pending, err := p.store.Append(ctx, &models.Transaction{
		AccountId:   accountID,
		Kind:        models.ADJUSTMENT,
		Amount:      report.Drift,
		ReferenceId: fmt.Sprintf("reconcile:%d", acct.Version),
		Description: fmt.Sprintf("reconciliation: cached %d, ledger %d", acct.Balance, recomputed),
	})
	if errors.Is(err, storage.ErrDuplicateReference) {
		// Another reconciler holds this version's adjustment.
		return nil, storage.ErrVersionConflict
	}
	if err != nil {
		return nil, err
	}

	done, _, err := p.store.Complete(ctx, pending, acct.Version, 0)
	if err == nil {
		report.Adjustment = done
		return report, nil
	}

	reason := models.ReasonStorageUnavailable
	if errors.Is(err, storage.ErrVersionConflict) {
		reason = models.ReasonVersionConflict
	}
	if _, ferr := p.store.Fail(context.WithoutCancel(ctx), pending, reason); ferr != nil {
		p.logger.WarnContext(ctx, "failed to mark adjustment failed", "transaction", pending.Id, "error", ferr)
	}
	return nil, err
}

// ReconcileAll reconciles every account, a bounded number at a time. Accounts that fail
// are logged and left out of the reports; their errors are joined.
func (p *Projector) ReconcileAll(ctx context.Context) ([]models.ReconciliationReport, error) {
	accounts, err := p.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]*models.ReconciliationReport, len(accounts))
	errs := make([]error, len(accounts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)
	for i, acct := range accounts {
		g.Go(func() error {
			reports[i], errs[i] = p.Reconcile(gctx, acct.AccountId)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]models.ReconciliationReport, 0, len(accounts))
	for _, r := range reports {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, errors.Join(errs...)
}
