package sqlstore

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	// Use a per-test in-memory database to avoid cross-test interference
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	store, err := Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	return store
}

func appendAndComplete(t *testing.T, store *Store, accountID, ref string, amount int64) *models.Transaction {
	t.Helper()
	ctx := context.Background()
	acct, err := store.GetAccount(ctx, accountID)
	require.NoError(t, err)
	tx, err := store.Append(ctx, &models.Transaction{AccountId: accountID, Kind: models.PURCHASE, Amount: amount, ReferenceId: ref})
	require.NoError(t, err)
	done, _, err := store.Complete(ctx, tx, acct.Version, amount)
	require.NoError(t, err)
	return done
}

func TestGetAccountCreatesOnce(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	first, err := store.GetAccount(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(0), first.Balance)
	require.Equal(t, int64(0), first.Version)

	second, err := store.GetAccount(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, first.AccountId, second.AccountId)

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
}

func TestUpdateBalance(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	_, err := store.GetAccount(ctx, "user-1")
	require.NoError(t, err)

	acct, err := store.UpdateBalance(ctx, "user-1", 0, 100)
	require.NoError(t, err)
	require.Equal(t, int64(100), acct.Balance)
	require.Equal(t, int64(1), acct.Version)

	_, err = store.UpdateBalance(ctx, "user-1", 0, 100)
	require.ErrorIs(t, err, storage.ErrVersionConflict)

	_, err = store.UpdateBalance(ctx, "user-1", 1, -101)
	require.ErrorIs(t, err, storage.ErrInsufficientBalance)

	_, err = store.UpdateBalance(ctx, "user-1", 1, math.MaxInt64)
	require.ErrorIs(t, err, storage.ErrBalanceOverflow)

	acct, err = store.GetAccount(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, int64(100), acct.Balance)
	require.Equal(t, int64(1), acct.Version)
}

func TestAppendReferenceUniqueness(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	tx, err := store.Append(ctx, &models.Transaction{AccountId: "user-1", Kind: models.PURCHASE, Amount: 100, ReferenceId: "order-1"})
	require.NoError(t, err)
	require.Equal(t, models.PENDING, tx.Status)
	require.NotEmpty(t, tx.Id)

	_, err = store.Append(ctx, &models.Transaction{AccountId: "user-1", Kind: models.PURCHASE, Amount: 100, ReferenceId: "order-1"})
	require.ErrorIs(t, err, storage.ErrDuplicateReference)

	// The same reference on another account is independent.
	_, err = store.Append(ctx, &models.Transaction{AccountId: "user-2", Kind: models.PURCHASE, Amount: 100, ReferenceId: "order-1"})
	require.NoError(t, err)

	// A failed row frees its reference.
	_, err = store.Fail(ctx, tx, models.ReasonStorageUnavailable)
	require.NoError(t, err)
	retry, err := store.Append(ctx, &models.Transaction{AccountId: "user-1", Kind: models.PURCHASE, Amount: 100, ReferenceId: "order-1"})
	require.NoError(t, err)

	found, err := store.FindByReference(ctx, "user-1", "order-1")
	require.NoError(t, err)
	require.Equal(t, retry.Id, found.Id)
}

func TestAppendSingleRefund(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	original := appendAndComplete(t, store, "user-1", "order-1", 100)

	refund, err := store.Append(ctx, &models.Transaction{AccountId: "user-1", Kind: models.REFUND, Amount: -100, ReferenceId: "refund-1", RefundsTransactionId: original.Id})
	require.NoError(t, err)

	_, err = store.Append(ctx, &models.Transaction{AccountId: "user-1", Kind: models.REFUND, Amount: -100, ReferenceId: "refund-2", RefundsTransactionId: original.Id})
	require.ErrorIs(t, err, storage.ErrAlreadyRefunded)

	found, err := store.FindRefund(ctx, original.Id)
	require.NoError(t, err)
	require.Equal(t, refund.Id, found.Id)

	_, err = store.Fail(ctx, refund, models.ReasonRefundWouldOverdraw)
	require.NoError(t, err)
	_, err = store.FindRefund(ctx, original.Id)
	require.ErrorIs(t, err, storage.ErrTransactionNotFound)
}

func TestComplete(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	done := appendAndComplete(t, store, "user-1", "order-1", 250)
	require.Equal(t, models.COMPLETED, done.Status)
	require.NotNil(t, done.BalanceAfter)
	require.Equal(t, int64(250), *done.BalanceAfter)
	require.NotNil(t, done.CompletedAt)

	t.Run("Stale version leaves both rows untouched", func(t *testing.T) {
		tx, err := store.Append(ctx, &models.Transaction{AccountId: "user-1", Kind: models.SPEND, Amount: -50, ReferenceId: "call-1"})
		require.NoError(t, err)

		_, _, err = store.Complete(ctx, tx, 0, -50)
		require.ErrorIs(t, err, storage.ErrVersionConflict)

		stored, err := store.GetTransaction(ctx, tx.Id)
		require.NoError(t, err)
		require.Equal(t, models.PENDING, stored.Status)
		acct, err := store.GetAccount(ctx, "user-1")
		require.NoError(t, err)
		require.Equal(t, int64(250), acct.Balance)
	})

	t.Run("Completed row cannot complete twice", func(t *testing.T) {
		acct, err := store.GetAccount(ctx, "user-1")
		require.NoError(t, err)

		_, _, err = store.Complete(ctx, done, acct.Version, 250)
		require.ErrorIs(t, err, storage.ErrInvalidTransition)

		after, err := store.GetAccount(ctx, "user-1")
		require.NoError(t, err)
		require.Equal(t, acct.Balance, after.Balance)
		require.Equal(t, acct.Version, after.Version)
	})

	t.Run("Terminal row cannot fail", func(t *testing.T) {
		_, err := store.Fail(ctx, done, models.ReasonAbandoned)
		require.ErrorIs(t, err, storage.ErrInvalidTransition)
	})
}

func TestListQueries(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	first := appendAndComplete(t, store, "user-1", "order-1", 100)
	clock = clock.Add(time.Minute)
	pending, err := store.Append(ctx, &models.Transaction{AccountId: "user-1", Kind: models.SPEND, Amount: -10, ReferenceId: "call-1"})
	require.NoError(t, err)
	clock = clock.Add(time.Hour)

	history, err := store.ListTransactions(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, first.Id, history[0].Id)
	assert.Equal(t, pending.Id, history[1].Id)

	stale, err := store.ListStalePending(ctx, 30*time.Minute)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, pending.Id, stale[0].Id)

	stale, err = store.ListStalePending(ctx, 2*time.Hour)
	require.NoError(t, err)
	assert.Empty(t, stale)

	_, err = store.GetTransaction(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrTransactionNotFound)
}
