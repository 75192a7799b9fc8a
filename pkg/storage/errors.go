package storage

import (
	"errors"
	"fmt"
	"math"
)

// ErrDuplicateReference is returned when a reference id already has a non-failed transaction.
var ErrDuplicateReference = errors.New("duplicate reference")

// ErrAlreadyRefunded is returned when the original transaction already has a non-failed refund.
var ErrAlreadyRefunded = errors.New("transaction already refunded")

// ErrVersionConflict is returned when an account changed since it was read.
var ErrVersionConflict = errors.New("account version conflict")

// ErrInsufficientBalance is returned when a balance update would make the balance negative.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrBalanceOverflow is returned when a balance update would exceed the largest representable balance.
var ErrBalanceOverflow = errors.New("balance overflow")

// ErrInvalidTransition is returned when a transaction is not in the status an update requires.
var ErrInvalidTransition = errors.New("invalid transaction status transition")

// ErrTransactionNotFound is returned when no transaction matches the lookup.
var ErrTransactionNotFound = errors.New("transaction not found")

// ErrStorageUnavailable marks every infrastructure failure of the underlying database.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Unavailable wraps a backend error so that callers can match ErrStorageUnavailable
// while keeping the original cause in the chain.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

// CheckDelta reports whether delta can be applied to balance: ErrInsufficientBalance if
// the result would be negative, ErrBalanceOverflow if it would not fit in an int64.
func CheckDelta(balance, delta int64) error {
	if delta > 0 && balance > math.MaxInt64-delta {
		return ErrBalanceOverflow
	}
	if balance+delta < 0 {
		return ErrInsufficientBalance
	}
	return nil
}
