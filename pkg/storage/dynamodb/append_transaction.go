package dynamodb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
	"github.com/google/uuid"
)

// claim is a uniqueness marker in the claims table.
type claim struct {
	ClaimKey      string `dynamodbav:"claim_key"`
	TransactionID string `dynamodbav:"transaction_id"`
}

func referenceClaimKey(accountID, referenceID string) string {
	return fmt.Sprintf("REF#%s#%s", accountID, referenceID)
}

func refundClaimKey(originalTxID string) string {
	return fmt.Sprintf("REFUND#%s", originalTxID)
}

// Append inserts a pending transaction and claims its reference id (and the refund
// slot of the original for refunds) in a single TransactWriteItems call.
func (s *Store) Append(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	out := *tx
	out.Id = uuid.New().String()
	out.Status = models.PENDING
	out.CreatedAt = s.timestamp()
	out.BalanceAfter = nil
	out.CompletedAt = nil
	out.FailureReason = ""

	slog.Log(ctx, slog.LevelDebug, "appending transaction", "transaction", out.Id, "account", out.AccountId, "reference", out.ReferenceId)

	txAV, err := attributevalue.MarshalMap(out)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}
	refAV, err := attributevalue.MarshalMap(claim{ClaimKey: referenceClaimKey(out.AccountId, out.ReferenceId), TransactionID: out.Id})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reference claim: %w", err)
	}

	items := []types.TransactWriteItem{
		{
			// Operation 1: Create the pending transaction record.
			Put: &types.Put{
				TableName:           aws.String(s.TransactionsTableName),
				Item:                txAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		},
		{
			// Operation 2: Claim the reference id for this account.
			Put: &types.Put{
				TableName:           aws.String(s.ClaimsTableName),
				Item:                refAV,
				ConditionExpression: aws.String("attribute_not_exists(claim_key)"),
			},
		},
	}

	if out.RefundsTransactionId != "" {
		refundAV, err := attributevalue.MarshalMap(claim{ClaimKey: refundClaimKey(out.RefundsTransactionId), TransactionID: out.Id})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal refund claim: %w", err)
		}
		items = append(items, types.TransactWriteItem{
			// Operation 3: Claim the single refund slot of the original transaction.
			Put: &types.Put{
				TableName:           aws.String(s.ClaimsTableName),
				Item:                refundAV,
				ConditionExpression: aws.String("attribute_not_exists(claim_key)"),
			},
		})
	}

	_, err = s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		if reasons, ok := cancellationReasons(err); ok {
			if reasonCode(reasons, 1) == codeConditionalCheckFailed {
				return nil, storage.ErrDuplicateReference
			}
			if reasonCode(reasons, 2) == codeConditionalCheckFailed {
				return nil, storage.ErrAlreadyRefunded
			}
		}
		return nil, storage.Unavailable("failed to execute append transaction", err)
	}

	return &out, nil
}
