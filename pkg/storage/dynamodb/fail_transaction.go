package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
)

// Fail moves a pending transaction to failed and releases its claims so that the
// reference id can be reused by a later attempt.
func (s *Store) Fail(ctx context.Context, tx *models.Transaction, reason models.FailureReason) (*models.Transaction, error) {
	now := s.timestamp()
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp for failure: %w", err)
	}

	releaseClaim := func(key string) types.TransactWriteItem {
		return types.TransactWriteItem{
			Delete: &types.Delete{
				TableName:           aws.String(s.ClaimsTableName),
				Key:                 map[string]types.AttributeValue{"claim_key": &types.AttributeValueMemberS{Value: key}},
				ConditionExpression: aws.String("attribute_not_exists(claim_key) OR transaction_id = :id"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":id": &types.AttributeValueMemberS{Value: tx.Id},
				},
			},
		}
	}

	items := []types.TransactWriteItem{
		{
			// Operation 1: Move the transaction from pending to failed.
			Update: &types.Update{
				TableName:           aws.String(s.TransactionsTableName),
				Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: tx.Id}},
				UpdateExpression:    aws.String("SET #status = :failed_status, failure_reason = :reason, completed_at = :now"),
				ConditionExpression: aws.String("#status = :pending_status"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":failed_status":  &types.AttributeValueMemberS{Value: string(models.FAILED)},
					":pending_status": &types.AttributeValueMemberS{Value: string(models.PENDING)},
					":reason":         &types.AttributeValueMemberS{Value: string(reason)},
					":now":            nowAV,
				},
			},
		},
		// Operation 2: Release the reference claim.
		releaseClaim(referenceClaimKey(tx.AccountId, tx.ReferenceId)),
	}
	if tx.RefundsTransactionId != "" {
		// Operation 3: Release the refund slot of the original transaction.
		items = append(items, releaseClaim(refundClaimKey(tx.RefundsTransactionId)))
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		if reasons, ok := cancellationReasons(err); ok && reasonCode(reasons, 0) == codeConditionalCheckFailed {
			return nil, storage.ErrInvalidTransition
		}
		return nil, storage.Unavailable("failed to execute failure transaction", err)
	}

	failed := *tx
	failed.Status = models.FAILED
	failed.FailureReason = reason
	failed.CompletedAt = &now
	return &failed, nil
}
