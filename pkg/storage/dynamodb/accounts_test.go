package dynamodb

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
	"github.com/chris/coin-wallet-ledger/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(client DynamoDBAPI) *Store {
	store := New(client, "accounts", "transactions", "claims")
	store.now = func() time.Time { return fixedNow }
	return store
}

func accountItem(t *testing.T, acct models.Account) map[string]types.AttributeValue {
	t.Helper()
	av, err := attributevalue.MarshalMap(acct)
	assert.NoError(t, err)
	return av
}

func TestGetAccount(t *testing.T) {
	existing := models.Account{AccountId: "user-1", Balance: 250, Version: 4, CreatedAt: fixedNow, UpdatedAt: fixedNow}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			return *in.TableName == "accounts" && *in.ConsistentRead
		})).Return(&dynamodb.GetItemOutput{Item: accountItem(t, existing)}, nil)

		acct, err := store.GetAccount(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, int64(250), acct.Balance)
		assert.Equal(t, int64(4), acct.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Creates On First Access", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil)
		mockClient.On("PutItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			return *in.ConditionExpression == "attribute_not_exists(account_id)"
		})).Return(&dynamodb.PutItemOutput{}, nil)

		acct, err := store.GetAccount(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, "user-1", acct.AccountId)
		assert.Equal(t, int64(0), acct.Balance)
		assert.Equal(t, int64(0), acct.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Concurrent Creation", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(&dynamodb.GetItemOutput{Item: nil}, nil)
		mockClient.On("PutItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})
		mockClient.On("GetItem", mock.Anything, mock.Anything).Once().Return(&dynamodb.GetItemOutput{Item: accountItem(t, existing)}, nil)

		acct, err := store.GetAccount(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, int64(250), acct.Balance)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("get item failed"))

		_, err := store.GetAccount(context.Background(), "user-1")

		assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
		assert.Contains(t, err.Error(), "failed to get account from DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestUpdateBalance(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		updated := models.Account{AccountId: "user-1", Balance: 150, Version: 3}
		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			version := in.ExpressionAttributeValues[":version"].(*types.AttributeValueMemberN).Value
			delta := in.ExpressionAttributeValues[":delta"].(*types.AttributeValueMemberN).Value
			return version == "2" && delta == "50"
		})).Return(&dynamodb.UpdateItemOutput{Attributes: accountItem(t, updated)}, nil)

		acct, err := store.UpdateBalance(context.Background(), "user-1", 2, 50)

		assert.NoError(t, err)
		assert.Equal(t, int64(150), acct.Balance)
		assert.Equal(t, int64(3), acct.Version)
		mockClient.AssertExpectations(t)
	})

	t.Run("Debit Guards Minimum Balance", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			return in.ExpressionAttributeValues[":min"].(*types.AttributeValueMemberN).Value == "30"
		})).Return(&dynamodb.UpdateItemOutput{Attributes: accountItem(t, models.Account{AccountId: "user-1", Balance: 70, Version: 3})}, nil)

		_, err := store.UpdateBalance(context.Background(), "user-1", 2, -30)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Credit Guards Maximum Balance", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		current := accountItem(t, models.Account{AccountId: "user-1", Balance: math.MaxInt64 - 5, Version: 2})
		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			return in.ExpressionAttributeValues[":max"].(*types.AttributeValueMemberN).Value == "9223372036854775797" &&
				in.ExpressionAttributeValues[":min"].(*types.AttributeValueMemberN).Value == "0"
		})).Return(nil, &types.ConditionalCheckFailedException{Item: current})

		_, err := store.UpdateBalance(context.Background(), "user-1", 2, 10)

		assert.ErrorIs(t, err, storage.ErrBalanceOverflow)
		mockClient.AssertExpectations(t)
	})

	t.Run("Version Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		current := accountItem(t, models.Account{AccountId: "user-1", Balance: 100, Version: 5})
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{Item: current})

		_, err := store.UpdateBalance(context.Background(), "user-1", 2, 50)

		assert.ErrorIs(t, err, storage.ErrVersionConflict)
		mockClient.AssertExpectations(t)
	})

	t.Run("Insufficient Balance", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		current := accountItem(t, models.Account{AccountId: "user-1", Balance: 10, Version: 2})
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{Item: current})

		_, err := store.UpdateBalance(context.Background(), "user-1", 2, -50)

		assert.ErrorIs(t, err, storage.ErrInsufficientBalance)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		_, err := store.UpdateBalance(context.Background(), "user-1", 2, 50)

		assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
		assert.Contains(t, err.Error(), "failed to update account balance in DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestListAccounts(t *testing.T) {
	t.Run("Success Across Pages", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		lastKey := map[string]types.AttributeValue{"account_id": &types.AttributeValueMemberS{Value: "user-1"}}
		mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
			return in.ExclusiveStartKey == nil
		})).Return(&dynamodb.ScanOutput{
			Items:            []map[string]types.AttributeValue{accountItem(t, models.Account{AccountId: "user-1"})},
			LastEvaluatedKey: lastKey,
		}, nil)
		mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
			return in.ExclusiveStartKey != nil
		})).Return(&dynamodb.ScanOutput{
			Items: []map[string]types.AttributeValue{accountItem(t, models.Account{AccountId: "user-2"})},
		}, nil)

		accounts, err := store.ListAccounts(context.Background())

		assert.NoError(t, err)
		assert.Len(t, accounts, 2)
		assert.Equal(t, "user-1", accounts[0].AccountId)
		assert.Equal(t, "user-2", accounts[1].AccountId)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("Scan", mock.Anything, mock.Anything).Return(nil, errors.New("scan failed"))

		_, err := store.ListAccounts(context.Background())

		assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
		mockClient.AssertExpectations(t)
	})
}
