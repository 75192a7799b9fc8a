package wallet

import (
	"errors"

	"github.com/chris/coin-wallet-ledger/pkg/storage"
)

// Stable error kinds returned by the Service. Callers match them with errors.Is.
var (
	ErrValidation           = errors.New("validation error")
	ErrConcurrencyExhausted = errors.New("concurrency retries exhausted")
	ErrNotRefundable        = errors.New("transaction is not refundable")
	ErrRefundWouldOverdraw  = errors.New("refund would overdraw the account")

	ErrInsufficientBalance = storage.ErrInsufficientBalance
	ErrDuplicateReference  = storage.ErrDuplicateReference
	ErrVersionConflict     = storage.ErrVersionConflict
	ErrStorageUnavailable  = storage.ErrStorageUnavailable
	ErrTransactionNotFound = storage.ErrTransactionNotFound
)

// Codes reported for each error kind. They are part of the API contract.
const (
	CodeOK                   = "ok"
	CodeValidation           = "validation_error"
	CodeInsufficientBalance  = "insufficient_balance"
	CodeDuplicateReference   = "duplicate_reference"
	CodeConcurrencyExhausted = "concurrency_exhausted"
	CodeNotRefundable        = "not_refundable"
	CodeRefundWouldOverdraw  = "refund_would_overdraw"
	CodeTransactionNotFound  = "transaction_not_found"
	CodeStorageUnavailable   = "storage_unavailable"
	CodeInternal             = "internal_error"
)

// Code returns the stable code of err's kind.
func Code(err error) string {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrRefundWouldOverdraw):
		return CodeRefundWouldOverdraw
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrDuplicateReference):
		return CodeDuplicateReference
	case errors.Is(err, ErrNotRefundable):
		return CodeNotRefundable
	case errors.Is(err, ErrConcurrencyExhausted):
		return CodeConcurrencyExhausted
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrStorageUnavailable):
		return CodeStorageUnavailable
	}
	return CodeInternal
}
