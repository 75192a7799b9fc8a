package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
	"github.com/chris/coin-wallet-ledger/pkg/storage/dynamodb/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func transactionItems(t *testing.T, txs ...models.Transaction) []map[string]types.AttributeValue {
	t.Helper()
	var items []map[string]types.AttributeValue
	for _, tx := range txs {
		av, err := attributevalue.MarshalMap(tx)
		assert.NoError(t, err)
		items = append(items, av)
	}
	return items
}

func TestListStalePending(t *testing.T) {
	stale := []models.Transaction{
		{Id: uuid.New().String(), Status: models.PENDING, CreatedAt: fixedNow.Add(-time.Hour)},
		{Id: uuid.New().String(), Status: models.PENDING, CreatedAt: fixedNow.Add(-30 * time.Minute)},
	}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return *in.IndexName == stalePendingGSI
		})).Return(&dynamodb.QueryOutput{Items: transactionItems(t, stale...)}, nil)

		result, err := store.ListStalePending(context.Background(), time.Minute)

		assert.NoError(t, err)
		assert.Equal(t, stale, result)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("query failed"))

		_, err := store.ListStalePending(context.Background(), time.Minute)

		assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
		assert.Contains(t, err.Error(), "failed to query for stale pending transactions")
		mockClient.AssertExpectations(t)
	})
}

func TestListTransactions(t *testing.T) {
	first := models.Transaction{Id: "tx-1", AccountId: "user-1", CreatedAt: fixedNow.Add(-2 * time.Minute)}
	second := models.Transaction{Id: "tx-2", AccountId: "user-1", CreatedAt: fixedNow.Add(-time.Minute)}

	t.Run("Success Across Pages", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		lastKey := map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "tx-2"}}
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(&dynamodb.QueryOutput{
			Items:            transactionItems(t, second),
			LastEvaluatedKey: lastKey,
		}, nil)
		mockClient.On("Query", mock.Anything, mock.Anything).Once().Return(&dynamodb.QueryOutput{
			Items: transactionItems(t, first),
		}, nil)

		result, err := store.ListTransactions(context.Background(), "user-1")

		assert.NoError(t, err)
		assert.Equal(t, []models.Transaction{first, second}, result)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("Query", mock.Anything, mock.Anything).Return(nil, errors.New("query failed"))

		_, err := store.ListTransactions(context.Background(), "user-1")

		assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
		assert.Contains(t, err.Error(), "failed to query for transactions by account ID")
		mockClient.AssertExpectations(t)
	})
}
