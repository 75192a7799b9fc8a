// Package respond writes JSON responses and maps wallet error kinds to HTTP statuses.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chris/coin-wallet-ledger/pkg/api"
	"github.com/chris/coin-wallet-ledger/pkg/wallet"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Status returns the HTTP status for err's kind.
func Status(err error) int {
	switch wallet.Code(err) {
	case wallet.CodeOK:
		return http.StatusOK
	case wallet.CodeValidation:
		return http.StatusBadRequest
	case wallet.CodeInsufficientBalance:
		return http.StatusPaymentRequired
	case wallet.CodeRefundWouldOverdraw:
		return http.StatusUnprocessableEntity
	case wallet.CodeDuplicateReference, wallet.CodeNotRefundable:
		return http.StatusConflict
	case wallet.CodeTransactionNotFound:
		return http.StatusNotFound
	case wallet.CodeStorageUnavailable, wallet.CodeConcurrencyExhausted:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Error writes the error body for err. The code comes from the error kind only.
func Error(w http.ResponseWriter, err error) {
	status := Status(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("unexpected handler error", "error", err)
		message = "internal error"
	}
	JSON(w, status, api.Error{Code: wallet.Code(err), Message: message})
}

// Transaction writes the result of a wallet mutation. Rejections that come with a
// transaction (the existing row for a duplicate, the failed row for an overdraw) return
// that transaction as the body under the error's status.
func Transaction(w http.ResponseWriter, tx *api.Transaction, err error) {
	if err == nil {
		JSON(w, http.StatusOK, tx)
		return
	}
	if tx != nil {
		JSON(w, Status(err), tx)
		return
	}
	Error(w, err)
}

// InvalidBody writes a validation error for an undecodable request body.
func InvalidBody(w http.ResponseWriter, err error) {
	Error(w, fmt.Errorf("%w: invalid request body: %w", wallet.ErrValidation, err))
}

// ParamError reports a path or query parameter that failed to bind. It is installed as the
// router's ErrorHandlerFunc.
func ParamError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *api.InvalidParamFormatError
	if errors.As(err, &invalid) && invalid.ParamName == "transactionId" {
		// A malformed id cannot name an existing transaction.
		Error(w, fmt.Errorf("%w: %w", wallet.ErrTransactionNotFound, err))
		return
	}
	Error(w, fmt.Errorf("%w: %w", wallet.ErrValidation, err))
}
