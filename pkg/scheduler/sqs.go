package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// maxBatchSize is the SQS limit on entries per SendMessageBatch call.
const maxBatchSize = 10

// SQSAPI is the subset of the SQS client the scheduler uses.
type SQSAPI interface {
	SendMessageBatch(ctx context.Context, params *sqs.SendMessageBatchInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageBatchOutput, error)
}

// SQSScheduler implements the ReconcileScheduler interface using AWS SQS.
type SQSScheduler struct {
	Client   SQSAPI
	QueueURL string
}

// NewSQSScheduler creates a new SQSScheduler.
func NewSQSScheduler(client SQSAPI, queueURL string) *SQSScheduler {
	return &SQSScheduler{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ ReconcileScheduler = (*SQSScheduler)(nil)

// EnqueueReconciliation sends one message per account, in batches of ten. Entries rejected
// by SQS are collected and returned together after every batch has been attempted.
func (s *SQSScheduler) EnqueueReconciliation(ctx context.Context, accountIDs []string) error {
	var errs []error
	for start := 0; start < len(accountIDs); start += maxBatchSize {
		end := min(start+maxBatchSize, len(accountIDs))
		if err := s.sendBatch(ctx, accountIDs[start:end]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *SQSScheduler) sendBatch(ctx context.Context, accountIDs []string) error {
	entries := make([]types.SendMessageBatchRequestEntry, len(accountIDs))
	for i, id := range accountIDs {
		body, err := json.Marshal(ReconcileMessage{AccountId: id})
		if err != nil {
			return fmt.Errorf("failed to marshal reconciliation message for SQS: %w", err)
		}
		entries[i] = types.SendMessageBatchRequestEntry{
			Id:          aws.String(strconv.Itoa(i)),
			MessageBody: aws.String(string(body)),
		}
	}

	out, err := s.Client.SendMessageBatch(ctx, &sqs.SendMessageBatchInput{
		QueueUrl: aws.String(s.QueueURL),
		Entries:  entries,
	})
	if err != nil {
		return fmt.Errorf("failed to send message batch to SQS: %w", err)
	}

	var errs []error
	for _, failed := range out.Failed {
		i, _ := strconv.Atoi(aws.ToString(failed.Id))
		errs = append(errs, fmt.Errorf("failed to enqueue account %s: %s", accountIDs[i], aws.ToString(failed.Message)))
	}
	return errors.Join(errs...)
}

// ParseReconcileMessage decodes a queued reconciliation request.
func ParseReconcileMessage(body string) (ReconcileMessage, error) {
	var msg ReconcileMessage
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return msg, fmt.Errorf("failed to unmarshal reconciliation message: %w", err)
	}
	if msg.AccountId == "" {
		return msg, errors.New("reconciliation message has no account_id")
	}
	return msg, nil
}
