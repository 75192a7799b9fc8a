// Package memory provides an in-process LedgerStore. It backs local runs of the
// API and the wallet tests; every method holds a single mutex, so each call is
// atomic while separate calls interleave freely, like round trips to a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
	"github.com/google/uuid"
)

type row struct {
	tx  models.Transaction
	seq int64
}

// Store implements storage.LedgerStore in memory.
type Store struct {
	mu           sync.Mutex
	accounts     map[string]*models.Account
	transactions map[string]*row
	references   map[string]string
	refunds      map[string]string
	seq          int64

	// Now is the clock used for timestamps. Tests may replace it.
	Now func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		accounts:     make(map[string]*models.Account),
		transactions: make(map[string]*row),
		references:   make(map[string]string),
		refunds:      make(map[string]string),
		Now:          time.Now,
	}
}

// Make sure we conform to the interface
var _ storage.LedgerStore = (*Store)(nil)

func referenceKey(accountID, referenceID string) string {
	return accountID + "\x00" + referenceID
}

func (s *Store) account(accountID string) *models.Account {
	acct, ok := s.accounts[accountID]
	if !ok {
		now := s.Now().UTC()
		acct = &models.Account{AccountId: accountID, CreatedAt: now, UpdatedAt: now}
		s.accounts[accountID] = acct
	}
	return acct
}

// GetAccount returns the account, creating it with a zero balance on first access.
func (s *Store) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.Unavailable("get account", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	acct := *s.account(accountID)
	return &acct, nil
}

// UpdateBalance applies delta if the stored version matches expectedVersion.
func (s *Store) UpdateBalance(ctx context.Context, accountID string, expectedVersion, delta int64) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.Unavailable("update balance", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	acct := s.account(accountID)
	if err := s.applyLocked(acct, expectedVersion, delta); err != nil {
		return nil, err
	}
	out := *acct
	return &out, nil
}

func (s *Store) applyLocked(acct *models.Account, expectedVersion, delta int64) error {
	if acct.Version != expectedVersion {
		return storage.ErrVersionConflict
	}
	if err := storage.CheckDelta(acct.Balance, delta); err != nil {
		return err
	}
	acct.Balance += delta
	acct.Version++
	acct.UpdatedAt = s.Now().UTC()
	return nil
}

// ListAccounts returns every account ordered by id.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.Unavailable("list accounts", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]models.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		accounts = append(accounts, *acct)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].AccountId < accounts[j].AccountId })
	return accounts, nil
}

// Append inserts a pending transaction and claims its reference.
func (s *Store) Append(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.Unavailable("append transaction", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	refKey := referenceKey(tx.AccountId, tx.ReferenceId)
	if _, taken := s.references[refKey]; taken {
		return nil, storage.ErrDuplicateReference
	}
	if tx.RefundsTransactionId != "" {
		if _, taken := s.refunds[tx.RefundsTransactionId]; taken {
			return nil, storage.ErrAlreadyRefunded
		}
	}

	out := *tx
	out.Id = uuid.New().String()
	out.Status = models.PENDING
	out.CreatedAt = s.Now().UTC()
	out.BalanceAfter = nil
	out.CompletedAt = nil
	out.FailureReason = ""

	s.seq++
	s.transactions[out.Id] = &row{tx: out, seq: s.seq}
	s.references[refKey] = out.Id
	if out.RefundsTransactionId != "" {
		s.refunds[out.RefundsTransactionId] = out.Id
	}
	return &out, nil
}

// Complete applies the balance delta and completes the transaction atomically.
func (s *Store) Complete(ctx context.Context, tx *models.Transaction, expectedVersion, delta int64) (*models.Transaction, *models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, storage.Unavailable("complete transaction", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.transactions[tx.Id]
	if !ok {
		return nil, nil, storage.ErrTransactionNotFound
	}
	if r.tx.Status != models.PENDING {
		return nil, nil, storage.ErrInvalidTransition
	}
	acct := s.account(r.tx.AccountId)
	if err := s.applyLocked(acct, expectedVersion, delta); err != nil {
		return nil, nil, err
	}

	now := s.Now().UTC()
	balanceAfter := acct.Balance
	r.tx.Status = models.COMPLETED
	r.tx.BalanceAfter = &balanceAfter
	r.tx.CompletedAt = &now

	outTx := r.tx
	outAcct := *acct
	return &outTx, &outAcct, nil
}

// Fail marks a pending transaction failed and releases its claims.
func (s *Store) Fail(ctx context.Context, tx *models.Transaction, reason models.FailureReason) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.Unavailable("fail transaction", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.transactions[tx.Id]
	if !ok {
		return nil, storage.ErrTransactionNotFound
	}
	if r.tx.Status != models.PENDING {
		return nil, storage.ErrInvalidTransition
	}

	now := s.Now().UTC()
	r.tx.Status = models.FAILED
	r.tx.FailureReason = reason
	r.tx.CompletedAt = &now

	refKey := referenceKey(r.tx.AccountId, r.tx.ReferenceId)
	if s.references[refKey] == r.tx.Id {
		delete(s.references, refKey)
	}
	if r.tx.RefundsTransactionId != "" && s.refunds[r.tx.RefundsTransactionId] == r.tx.Id {
		delete(s.refunds, r.tx.RefundsTransactionId)
	}

	out := r.tx
	return &out, nil
}

// GetTransaction retrieves a transaction by id.
func (s *Store) GetTransaction(ctx context.Context, txID string) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.Unavailable("get transaction", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.transactions[txID]
	if !ok {
		return nil, storage.ErrTransactionNotFound
	}
	out := r.tx
	return &out, nil
}

// FindByReference retrieves the non-failed transaction holding the reference.
func (s *Store) FindByReference(ctx context.Context, accountID, referenceID string) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.Unavailable("find by reference", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.references[referenceKey(accountID, referenceID)]
	if !ok {
		return nil, storage.ErrTransactionNotFound
	}
	out := s.transactions[id].tx
	return &out, nil
}

// FindRefund retrieves the non-failed refund of originalTxID.
func (s *Store) FindRefund(ctx context.Context, originalTxID string) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.Unavailable("find refund", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.refunds[originalTxID]
	if !ok {
		return nil, storage.ErrTransactionNotFound
	}
	out := s.transactions[id].tx
	return &out, nil
}

// ListTransactions returns the account history in creation order.
func (s *Store) ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.Unavailable("list transactions", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []*row
	for _, r := range s.transactions {
		if r.tx.AccountId == accountID {
			rows = append(rows, r)
		}
	}
	return sortedTransactions(rows), nil
}

// ListStalePending returns pending transactions older than olderThan.
func (s *Store) ListStalePending(ctx context.Context, olderThan time.Duration) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, storage.Unavailable("list stale pending", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.Now().UTC().Add(-olderThan)
	var rows []*row
	for _, r := range s.transactions {
		if r.tx.Status == models.PENDING && r.tx.CreatedAt.Before(cutoff) {
			rows = append(rows, r)
		}
	}
	return sortedTransactions(rows), nil
}

func sortedTransactions(rows []*row) []models.Transaction {
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].tx.CreatedAt.Equal(rows[j].tx.CreatedAt) {
			return rows[i].tx.CreatedAt.Before(rows[j].tx.CreatedAt)
		}
		return rows[i].seq < rows[j].seq
	})
	out := make([]models.Transaction, len(rows))
	for i, r := range rows {
		out[i] = r.tx
	}
	return out
}
