package transactions

import (
	"context"
	"net/http"

	"github.com/chris/coin-wallet-ledger/pkg/api"
	"github.com/chris/coin-wallet-ledger/pkg/handlers/respond"
	"github.com/chris/coin-wallet-ledger/pkg/mapping"
	"github.com/chris/coin-wallet-ledger/pkg/models"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Service reads the transaction history.
type Service interface {
	GetTransaction(ctx context.Context, txID string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error)
}

// Reconciler repairs an account whose cached balance drifted from its ledger.
type Reconciler interface {
	Reconcile(ctx context.Context, accountID string) (*models.ReconciliationReport, error)
}

// TransactionsHandler holds the dependencies for transaction-related handlers.
type TransactionsHandler struct {
	Service    Service
	Reconciler Reconciler
}

// NewTransactionsHandler creates a new TransactionsHandler.
func NewTransactionsHandler(service Service, reconciler Reconciler) *TransactionsHandler {
	return &TransactionsHandler{Service: service, Reconciler: reconciler}
}

// GetTransaction handles the logic for retrieving a transaction by its ID.
func (h *TransactionsHandler) GetTransaction(w http.ResponseWriter, r *http.Request, transactionId openapi_types.UUID) {
	tx, err := h.Service.GetTransaction(r.Context(), transactionId.String())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiTransaction(tx))
}

// ListAccountTransactions handles the logic for retrieving the full history of an account.
func (h *TransactionsHandler) ListAccountTransactions(w http.ResponseWriter, r *http.Request, accountId api.AccountId) {
	txs, err := h.Service.ListTransactions(r.Context(), accountId)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiTransactions(txs))
}

// ReconcileAccount compares the cached balance with the ledger and corrects any drift.
func (h *TransactionsHandler) ReconcileAccount(w http.ResponseWriter, r *http.Request, accountId api.AccountId) {
	report, err := h.Reconciler.Reconcile(r.Context(), accountId)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiReconciliationReport(report))
}
