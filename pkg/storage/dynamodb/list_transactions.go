package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
)

const (
	stalePendingGSI   = "status-created_at-index"
	accountHistoryGSI = "account_id-created_at-index"
)

// ListTransactions returns the full history of an account ordered by creation time.
func (s *Store) ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(accountHistoryGSI),
		KeyConditionExpression: aws.String("account_id = :account_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":account_id": &types.AttributeValueMemberS{Value: accountID},
		},
		ScanIndexForward: aws.Bool(true),
	}

	transactions, err := s.queryAll(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for transactions by account ID: %w", err)
	}
	return transactions, nil
}

// ListStalePending returns transactions that have been pending for longer than olderThan.
func (s *Store) ListStalePending(ctx context.Context, olderThan time.Duration) ([]models.Transaction, error) {
	// Calculate the cutoff time.
	cutoffAV, err := attributevalue.Marshal(s.timestamp().Add(-olderThan))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(stalePendingGSI),
		KeyConditionExpression: aws.String("#status = :status AND created_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(models.PENDING)},
			":cutoff": cutoffAV,
		},
	}

	transactions, err := s.queryAll(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for stale pending transactions: %w", err)
	}
	return transactions, nil
}

// queryAll follows LastEvaluatedKey until the query is exhausted. Index reads are
// eventually consistent, so the result is re-sorted by creation time.
func (s *Store) queryAll(ctx context.Context, input *dynamodb.QueryInput) ([]models.Transaction, error) {
	var transactions []models.Transaction
	for {
		result, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, storage.Unavailable("query", err)
		}

		var page []models.Transaction
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
		}
		transactions = append(transactions, page...)

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.Before(transactions[j].CreatedAt)
	})
	return transactions, nil
}
