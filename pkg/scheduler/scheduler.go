package scheduler

import (
	"context"
)

// ReconcileScheduler defines the interface for a component that queues accounts for
// asynchronous balance reconciliation.
type ReconcileScheduler interface {
	// EnqueueReconciliation queues one reconciliation request per account.
	EnqueueReconciliation(ctx context.Context, accountIDs []string) error
}

// ReconcileMessage is the body of a queued reconciliation request.
type ReconcileMessage struct {
	AccountId string `json:"account_id"`
}
