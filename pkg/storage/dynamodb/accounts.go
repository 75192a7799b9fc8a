package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
)

// GetAccount retrieves an account, creating a zero-balance record on first access.
func (s *Store) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	acct, err := s.readAccount(ctx, accountID)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, errAccountNotFound) {
		return nil, err
	}

	now := s.timestamp()
	acct = &models.Account{AccountId: accountID, CreatedAt: now, UpdatedAt: now}
	acctAV, err := attributevalue.MarshalMap(acct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account: %w", err)
	}

	_, err = s.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.AccountsTableName),
		Item:                acctAV,
		ConditionExpression: aws.String("attribute_not_exists(account_id)"), // Another caller may have created it first.
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return s.readAccount(ctx, accountID)
		}
		return nil, storage.Unavailable("failed to create account in DynamoDB", err)
	}

	return acct, nil
}

func (s *Store) readAccount(ctx context.Context, accountID string) (*models.Account, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"account_id": accountID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.AccountsTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, storage.Unavailable("failed to get account from DynamoDB", err)
	}

	if result.Item == nil {
		return nil, errAccountNotFound
	}

	var acct models.Account
	if err := attributevalue.UnmarshalMap(result.Item, &acct); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &acct, nil
}

// balanceUpdate builds the conditional update shared by UpdateBalance and Complete.
// The balance bounds keep the result within [0, MaxInt64] even if a caller
// computed delta against a stale read.
func (s *Store) balanceUpdate(accountID string, expectedVersion, delta int64) (*types.Update, error) {
	minBalance, maxBalance := uint64(0), int64(math.MaxInt64)
	if delta < 0 {
		minBalance = uint64(-delta)
	} else {
		maxBalance -= delta
	}
	nowAV, err := attributevalue.Marshal(s.timestamp())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	return &types.Update{
		TableName:           aws.String(s.AccountsTableName),
		Key:                 map[string]types.AttributeValue{"account_id": &types.AttributeValueMemberS{Value: accountID}},
		UpdateExpression:    aws.String("SET balance = balance + :delta, version = version + :inc, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(account_id) AND version = :version AND balance >= :min AND balance <= :max"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":delta":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", delta)},
			":inc":     &types.AttributeValueMemberN{Value: "1"},
			":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedVersion)},
			":min":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", minBalance)},
			":max":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", maxBalance)},
			":now":     nowAV,
		},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}, nil
}

// UpdateBalance applies delta to the account if its version still equals expectedVersion.
func (s *Store) UpdateBalance(ctx context.Context, accountID string, expectedVersion, delta int64) (*models.Account, error) {
	update, err := s.balanceUpdate(accountID, expectedVersion, delta)
	if err != nil {
		return nil, err
	}

	result, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                           update.TableName,
		Key:                                 update.Key,
		UpdateExpression:                    update.UpdateExpression,
		ConditionExpression:                 update.ConditionExpression,
		ExpressionAttributeValues:           update.ExpressionAttributeValues,
		ReturnValues:                        types.ReturnValueAllNew,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return nil, classifyBalanceCondition(condCheckFailed.Item, expectedVersion, delta)
		}
		return nil, storage.Unavailable("failed to update account balance in DynamoDB", err)
	}

	var acct models.Account
	if err := attributevalue.UnmarshalMap(result.Attributes, &acct); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	return &acct, nil
}

// ListAccounts retrieves all accounts from DynamoDB.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	var startKey map[string]types.AttributeValue

	for {
		result, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.AccountsTableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, storage.Unavailable("failed to scan accounts table", err)
		}

		var page []models.Account
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, fmt.Errorf("failed to unmarshal accounts: %w", err)
		}
		accounts = append(accounts, page...)

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return accounts, nil
}
