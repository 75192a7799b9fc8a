package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
)

// GetTransaction retrieves a transaction from DynamoDB by its ID.
func (s *Store) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": txID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName:      &s.TransactionsTableName,
		Key:            key,
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, storage.Unavailable("failed to get transaction from DynamoDB", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("transaction with ID %s: %w", txID, storage.ErrTransactionNotFound)
	}

	var tx models.Transaction
	if err := attributevalue.UnmarshalMap(result.Item, &tx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}

	return &tx, nil
}

// FindByReference retrieves the non-failed transaction that holds the account's reference id.
func (s *Store) FindByReference(ctx context.Context, accountID, referenceID string) (*models.Transaction, error) {
	return s.findClaimed(ctx, referenceClaimKey(accountID, referenceID))
}

// FindRefund retrieves the non-failed refund of the original transaction.
func (s *Store) FindRefund(ctx context.Context, originalTxID string) (*models.Transaction, error) {
	return s.findClaimed(ctx, refundClaimKey(originalTxID))
}

func (s *Store) findClaimed(ctx context.Context, claimKey string) (*models.Transaction, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"claim_key": claimKey})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal claim key: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.ClaimsTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, storage.Unavailable("failed to get claim from DynamoDB", err)
	}

	if result.Item == nil {
		return nil, storage.ErrTransactionNotFound
	}

	var c claim
	if err := attributevalue.UnmarshalMap(result.Item, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal claim: %w", err)
	}

	return s.GetTransaction(ctx, c.TransactionID)
}
