package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
	"github.com/chris/coin-wallet-ledger/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func canceled(codes ...string) error {
	reasons := make([]types.CancellationReason, len(codes))
	for i, code := range codes {
		reasons[i] = types.CancellationReason{Code: aws.String(code)}
	}
	return &types.TransactionCanceledException{CancellationReasons: reasons}
}

func TestAppend(t *testing.T) {
	purchase := &models.Transaction{AccountId: "user-1", Kind: models.PURCHASE, Amount: 100, ReferenceId: "order-1"}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 2 {
				return false
			}
			claimKey := in.TransactItems[1].Put.Item["claim_key"].(*types.AttributeValueMemberS).Value
			return *in.TransactItems[0].Put.TableName == "transactions" && claimKey == "REF#user-1#order-1"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		tx, err := store.Append(context.Background(), purchase)

		assert.NoError(t, err)
		assert.NotEmpty(t, tx.Id)
		assert.Equal(t, models.PENDING, tx.Status)
		assert.Equal(t, fixedNow, tx.CreatedAt)
		assert.Nil(t, tx.BalanceAfter)
		assert.Empty(t, purchase.Id, "input must not be mutated")
		mockClient.AssertExpectations(t)
	})

	t.Run("Refund Claims Original", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		refund := &models.Transaction{AccountId: "user-1", Kind: models.REFUND, Amount: -100, ReferenceId: "refund-1", RefundsTransactionId: "orig-1"}
		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 3 {
				return false
			}
			return in.TransactItems[2].Put.Item["claim_key"].(*types.AttributeValueMemberS).Value == "REFUND#orig-1"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		tx, err := store.Append(context.Background(), refund)

		assert.NoError(t, err)
		assert.Equal(t, "orig-1", tx.RefundsTransactionId)
		mockClient.AssertExpectations(t)
	})

	t.Run("Duplicate Reference", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, canceled("None", "ConditionalCheckFailed"))

		_, err := store.Append(context.Background(), purchase)

		assert.ErrorIs(t, err, storage.ErrDuplicateReference)
		mockClient.AssertExpectations(t)
	})

	t.Run("Already Refunded", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		refund := &models.Transaction{AccountId: "user-1", Kind: models.REFUND, Amount: -100, ReferenceId: "refund-2", RefundsTransactionId: "orig-1"}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, canceled("None", "None", "ConditionalCheckFailed"))

		_, err := store.Append(context.Background(), refund)

		assert.ErrorIs(t, err, storage.ErrAlreadyRefunded)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newTestStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("transaction failed"))

		_, err := store.Append(context.Background(), purchase)

		assert.ErrorIs(t, err, storage.ErrStorageUnavailable)
		assert.Contains(t, err.Error(), "failed to execute append transaction")
		mockClient.AssertExpectations(t)
	})
}
