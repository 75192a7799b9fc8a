package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
	"github.com/chris/coin-wallet-ledger/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCommitFailures(t *testing.T) {
	ctx := context.Background()
	pending := &models.Transaction{Id: "tx-1", AccountId: "user-1", Kind: models.SPEND, Amount: -10, ReferenceId: "ref-1", Status: models.PENDING}
	account := &models.Account{AccountId: "user-1", Balance: 100, Version: 7}

	failedWith := func(reason models.FailureReason) *models.Transaction {
		failed := *pending
		failed.Status = models.FAILED
		failed.FailureReason = reason
		return &failed
	}

	t.Run("Concurrency Exhausted", func(t *testing.T) {
		// Arrange
		mockStore := new(mocks.LedgerStore)
		mockStore.On("Append", mock.Anything, mock.AnythingOfType("*models.Transaction")).Return(pending, nil)
		mockStore.On("GetAccount", mock.Anything, "user-1").Return(account, nil)
		mockStore.On("Complete", mock.Anything, pending, int64(7), int64(-10)).Return(nil, nil, storage.ErrVersionConflict)
		mockStore.On("Fail", mock.Anything, pending, models.ReasonConcurrencyExhausted).Return(failedWith(models.ReasonConcurrencyExhausted), nil)
		svc := New(mockStore, WithBackOff(noDelay))

		// Act
		tx, err := svc.Debit(ctx, "user-1", 10, "ref-1", "")

		// Assert
		assert.ErrorIs(t, err, ErrConcurrencyExhausted)
		assert.Equal(t, models.FAILED, tx.Status)
		mockStore.AssertNumberOfCalls(t, "Complete", DefaultMaxAttempts)
		mockStore.AssertExpectations(t)
	})

	t.Run("Conflict Then Success", func(t *testing.T) {
		// Arrange
		mockStore := new(mocks.LedgerStore)
		fresh := &models.Account{AccountId: "user-1", Balance: 90, Version: 8}
		done := *pending
		done.Status = models.COMPLETED
		mockStore.On("Append", mock.Anything, mock.Anything).Return(pending, nil)
		mockStore.On("GetAccount", mock.Anything, "user-1").Once().Return(account, nil)
		mockStore.On("Complete", mock.Anything, pending, int64(7), int64(-10)).Once().Return(nil, nil, storage.ErrVersionConflict)
		mockStore.On("GetAccount", mock.Anything, "user-1").Once().Return(fresh, nil)
		mockStore.On("Complete", mock.Anything, pending, int64(8), int64(-10)).Once().Return(&done, fresh, nil)
		svc := New(mockStore, WithBackOff(noDelay))

		// Act
		tx, err := svc.Debit(ctx, "user-1", 10, "ref-1", "")

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, models.COMPLETED, tx.Status)
		mockStore.AssertNotCalled(t, "Fail", mock.Anything, mock.Anything, mock.Anything)
		mockStore.AssertExpectations(t)
	})

	t.Run("Storage Error Fails Pending Row", func(t *testing.T) {
		// Arrange
		mockStore := new(mocks.LedgerStore)
		mockStore.On("Append", mock.Anything, mock.Anything).Return(pending, nil)
		mockStore.On("GetAccount", mock.Anything, "user-1").Return(account, nil)
		mockStore.On("Complete", mock.Anything, pending, int64(7), int64(-10)).Return(nil, nil, storage.Unavailable("complete", errors.New("connection reset")))
		mockStore.On("Fail", mock.Anything, pending, models.ReasonStorageUnavailable).Return(failedWith(models.ReasonStorageUnavailable), nil)
		svc := New(mockStore, WithBackOff(noDelay))

		// Act
		tx, err := svc.Debit(ctx, "user-1", 10, "ref-1", "")

		// Assert
		assert.Nil(t, tx)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
		assert.Contains(t, err.Error(), "connection reset")
		mockStore.AssertNumberOfCalls(t, "Complete", 1)
		mockStore.AssertExpectations(t)
	})

	t.Run("Append Storage Error", func(t *testing.T) {
		// Arrange
		mockStore := new(mocks.LedgerStore)
		mockStore.On("Append", mock.Anything, mock.Anything).Return(nil, storage.Unavailable("append", errors.New("throttled")))
		svc := New(mockStore, WithBackOff(noDelay))

		// Act
		_, err := svc.Credit(ctx, "user-1", 10, "ref-1", "")

		// Assert
		assert.ErrorIs(t, err, ErrStorageUnavailable)
		mockStore.AssertExpectations(t)
	})

	t.Run("Duplicate Returns Existing", func(t *testing.T) {
		// Arrange
		mockStore := new(mocks.LedgerStore)
		existing := &models.Transaction{Id: "tx-0", AccountId: "user-1", Amount: 10, ReferenceId: "ref-1", Status: models.COMPLETED}
		mockStore.On("Append", mock.Anything, mock.Anything).Return(nil, storage.ErrDuplicateReference)
		mockStore.On("FindByReference", mock.Anything, "user-1", "ref-1").Return(existing, nil)
		svc := New(mockStore, WithBackOff(noDelay))

		// Act
		tx, err := svc.Credit(ctx, "user-1", 10, "ref-1", "")

		// Assert
		assert.ErrorIs(t, err, ErrDuplicateReference)
		assert.Equal(t, existing, tx)
		mockStore.AssertExpectations(t)
	})

	t.Run("Refund Claim Race", func(t *testing.T) {
		// Arrange
		mockStore := new(mocks.LedgerStore)
		original := &models.Transaction{Id: "tx-0", AccountId: "user-1", Kind: models.PURCHASE, Amount: 10, ReferenceId: "buy-1", Status: models.COMPLETED}
		mockStore.On("GetTransaction", mock.Anything, "tx-0").Return(original, nil)
		mockStore.On("FindRefund", mock.Anything, "tx-0").Return(nil, storage.ErrTransactionNotFound)
		mockStore.On("Append", mock.Anything, mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Kind == models.REFUND && tx.Amount == -10 && tx.RefundsTransactionId == "tx-0"
		})).Return(nil, storage.ErrAlreadyRefunded)
		svc := New(mockStore, WithBackOff(noDelay))

		// Act
		_, err := svc.Refund(ctx, "tx-0", "rfd-1")

		// Assert
		assert.ErrorIs(t, err, ErrNotRefundable)
		mockStore.AssertExpectations(t)
	})
}

func TestValidationNeverTouchesStorage(t *testing.T) {
	ctx := context.Background()
	mockStore := new(mocks.LedgerStore)
	svc := New(mockStore)

	_, err := svc.Credit(ctx, "user-1", 0, "ref-1", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Credit(ctx, "user-1", -5, "ref-1", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Credit(ctx, "", 5, "ref-1", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Credit(ctx, "user-1", 5, "", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Credit(ctx, "user-1", 5, "ref-1", models.REFUND)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Debit(ctx, "user-1", 0, "ref-1", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Debit(ctx, "user-1", 5, "ref-1", models.PURCHASE)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Refund(ctx, "", "rfd-1")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Refund(ctx, "tx-1", "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.GetBalance(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)

	mockStore.AssertExpectations(t)
}
