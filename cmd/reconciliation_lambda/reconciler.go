package main

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/scheduler"
)

type accountReconciler interface {
	Reconcile(ctx context.Context, accountID string) (*models.ReconciliationReport, error)
}

type reconciler struct {
	projector accountReconciler
	logger    *slog.Logger
}

// HandleRequest reconciles every account in the SQS batch. Messages that fail are
// reported back so that only they are redelivered; malformed messages are dropped.
func (h *reconciler) HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse
	for _, message := range sqsEvent.Records {
		msg, err := scheduler.ParseReconcileMessage(message.Body)
		if err != nil {
			h.logger.ErrorContext(ctx, "dropping malformed message", "message_id", message.MessageId, "error", err)
			continue
		}

		report, err := h.projector.Reconcile(ctx, msg.AccountId)
		if err != nil {
			h.logger.ErrorContext(ctx, "reconciliation failed", "message_id", message.MessageId, "account", msg.AccountId, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
			continue
		}
		h.logger.InfoContext(ctx, "account reconciled", "account", msg.AccountId, "drift", report.Drift, "needs_review", report.NeedsReview)
	}
	return resp, nil
}
