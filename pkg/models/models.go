package models

import (
	"time"
)

// TransactionStatus defines the possible states of a transaction.
type TransactionStatus string

const (
	PENDING   TransactionStatus = "pending"
	COMPLETED TransactionStatus = "completed"
	FAILED    TransactionStatus = "failed"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s TransactionStatus) IsTerminal() bool {
	return s == COMPLETED || s == FAILED
}

// TransactionKind classifies why coins moved.
type TransactionKind string

const (
	PURCHASE   TransactionKind = "purchase"
	SPEND      TransactionKind = "spend"
	REFUND     TransactionKind = "refund"
	ADJUSTMENT TransactionKind = "adjustment"
)

// Valid reports whether k is one of the known kinds.
func (k TransactionKind) Valid() bool {
	switch k {
	case PURCHASE, SPEND, REFUND, ADJUSTMENT:
		return true
	}
	return false
}

// FailureReason records why a transaction ended in the failed state.
type FailureReason string

const (
	ReasonInsufficientBalance  FailureReason = "insufficient_balance"
	ReasonRefundWouldOverdraw  FailureReason = "refund_would_overdraw"
	ReasonConcurrencyExhausted FailureReason = "concurrency_exhausted"
	ReasonVersionConflict      FailureReason = "version_conflict"
	ReasonStorageUnavailable   FailureReason = "storage_unavailable"
	ReasonAbandoned            FailureReason = "abandoned"
	ReasonBalanceOverflow      FailureReason = "balance_overflow"
)

// Account is a user's coin wallet. Balance is a cache of the sum of all
// completed transaction amounts; Version increments on every mutation.
type Account struct {
	AccountId string    `json:"account_id" dynamodbav:"account_id" gorm:"column:account_id;primaryKey;size:128"`
	Balance   int64     `json:"balance" dynamodbav:"balance" gorm:"column:current_balance;not null;default:0"`
	Version   int64     `json:"version" dynamodbav:"version" gorm:"column:version;not null;default:0"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at" gorm:"column:updated_at"`
}

// Transaction is an immutable ledger entry once it reaches a terminal status.
// Amount is signed: positive credits the account, negative debits it.
type Transaction struct {
	Id                   string            `json:"id" dynamodbav:"id" gorm:"column:transaction_id;primaryKey;size:36"`
	AccountId            string            `json:"account_id" dynamodbav:"account_id" gorm:"column:account_id;not null;index:idx_transactions_account_created,priority:1;size:128"`
	Kind                 TransactionKind   `json:"kind" dynamodbav:"kind" gorm:"column:kind;not null;size:16"`
	Amount               int64             `json:"amount" dynamodbav:"amount" gorm:"column:amount;not null"`
	BalanceAfter         *int64            `json:"balance_after,omitempty" dynamodbav:"balance_after,omitempty" gorm:"column:balance_after"`
	Status               TransactionStatus `json:"status" dynamodbav:"status" gorm:"column:status;not null;size:16"`
	ReferenceId          string            `json:"reference_id" dynamodbav:"reference_id" gorm:"column:reference_id;not null;size:255"`
	RefundsTransactionId string            `json:"refunds_transaction_id,omitempty" dynamodbav:"refunds_transaction_id,omitempty" gorm:"column:refunds_transaction_id;size:36"`
	FailureReason        FailureReason     `json:"failure_reason,omitempty" dynamodbav:"failure_reason,omitempty" gorm:"column:failure_reason;size:32"`
	Description          string            `json:"description,omitempty" dynamodbav:"description,omitempty" gorm:"column:description"`
	CreatedAt            time.Time         `json:"created_at" dynamodbav:"created_at" gorm:"column:created_at;not null;index:idx_transactions_account_created,priority:2"`
	CompletedAt          *time.Time        `json:"completed_at,omitempty" dynamodbav:"completed_at,omitempty" gorm:"column:completed_at"`

	// RefundedBy is derived, never stored: the id of the non-failed refund of this transaction.
	RefundedBy string `json:"refunded_by,omitempty" dynamodbav:"-" gorm:"-"`
}

// IsDebit reports whether the transaction removes coins from the account.
func (t *Transaction) IsDebit() bool {
	return t.Amount < 0
}

// ReconciliationReport describes the outcome of comparing an account's cached
// balance with the balance recomputed from its ledger.
type ReconciliationReport struct {
	AccountId    string       `json:"account_id"`
	Cached       int64        `json:"cached"`
	Recomputed   int64        `json:"recomputed"`
	Drift        int64        `json:"drift"`
	Adjustment   *Transaction `json:"adjustment,omitempty"`
	NeedsReview  bool         `json:"needs_review,omitempty"`
	ReconciledAt time.Time    `json:"reconciled_at"`
}

// Diverged reports whether the cached balance differed from the ledger.
func (r *ReconciliationReport) Diverged() bool {
	return r.Drift != 0
}
