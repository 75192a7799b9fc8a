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

// Complete applies delta to the account and marks the transaction completed in one
// TransactWriteItems call. The account is read first so that the balance snapshot can
// be written onto the transaction; the version condition guarantees that the snapshot
// matches the balance being updated.
func (s *Store) Complete(ctx context.Context, tx *models.Transaction, expectedVersion, delta int64) (*models.Transaction, *models.Account, error) {
	// 1. Read the account to compute the balance snapshot.
	acct, err := s.readAccount(ctx, tx.AccountId)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get account for completion: %w", err)
	}
	if acct.Version != expectedVersion {
		return nil, nil, storage.ErrVersionConflict
	}
	if err := storage.CheckDelta(acct.Balance, delta); err != nil {
		return nil, nil, err
	}

	// 2. Prepare common values.
	now := s.timestamp()
	balanceAfter := acct.Balance + delta

	accountUpdate, err := s.balanceUpdate(tx.AccountId, expectedVersion, delta)
	if err != nil {
		return nil, nil, err
	}
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal timestamp for completion: %w", err)
	}

	// 3. Construct the TransactWriteItems input.
	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Update the account balance and version.
				Update: accountUpdate,
			},
			{
				// Operation 2: Move the transaction from pending to completed.
				Update: &types.Update{
					TableName:           aws.String(s.TransactionsTableName),
					Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: tx.Id}},
					UpdateExpression:    aws.String("SET #status = :completed_status, balance_after = :balance_after, completed_at = :now"),
					ConditionExpression: aws.String("#status = :pending_status"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":completed_status": &types.AttributeValueMemberS{Value: string(models.COMPLETED)},
						":pending_status":   &types.AttributeValueMemberS{Value: string(models.PENDING)},
						":balance_after":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", balanceAfter)},
						":now":              nowAV,
					},
				},
			},
		},
	}

	// 4. Execute the transaction.
	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		if reasons, ok := cancellationReasons(err); ok {
			if reasonCode(reasons, 0) == codeConditionalCheckFailed {
				return nil, nil, classifyBalanceCondition(reasons[0].Item, expectedVersion, delta)
			}
			if reasonCode(reasons, 1) == codeConditionalCheckFailed {
				return nil, nil, storage.ErrInvalidTransition
			}
			if anyReason(reasons, codeTransactionConflict) {
				// A concurrent transactional write touched the account; the caller re-reads.
				return nil, nil, storage.ErrVersionConflict
			}
		}
		return nil, nil, storage.Unavailable("failed to execute completion transaction", err)
	}

	completed := *tx
	completed.Status = models.COMPLETED
	completed.BalanceAfter = &balanceAfter
	completed.CompletedAt = &now

	updated := *acct
	updated.Balance = balanceAfter
	updated.Version = expectedVersion + 1
	updated.UpdatedAt = now

	return &completed, &updated, nil
}
