package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/coin-wallet-ledger/pkg/scheduler"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
)

type stalePendingSweeper interface {
	SweepStalePending(ctx context.Context, olderThan time.Duration) (int, error)
}

type sweeper struct {
	store     storage.AccountStore
	projector stalePendingSweeper
	scheduler scheduler.ReconcileScheduler
	olderThan time.Duration
	logger    *slog.Logger
}

// HandleRequest is triggered by an EventBridge Schedule. It fails pending transactions
// abandoned by crashed callers, then queues every account for reconciliation.
func (s *sweeper) HandleRequest(ctx context.Context) error {
	swept, err := s.projector.SweepStalePending(ctx, s.olderThan)
	if err != nil {
		// Keep going: reconciliation does not depend on the sweep.
		s.logger.ErrorContext(ctx, "stale pending sweep incomplete", "swept", swept, "error", err)
	}

	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	ids := make([]string, len(accounts))
	for i, acct := range accounts {
		ids[i] = acct.AccountId
	}

	if err := s.scheduler.EnqueueReconciliation(ctx, ids); err != nil {
		return fmt.Errorf("failed to enqueue reconciliations: %w", err)
	}
	s.logger.InfoContext(ctx, "sweep finished", "swept", swept, "enqueued", len(ids))
	return nil
}
