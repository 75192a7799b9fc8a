package wallets

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/chris/coin-wallet-ledger/pkg/api"
	"github.com/chris/coin-wallet-ledger/pkg/handlers/respond"
	"github.com/chris/coin-wallet-ledger/pkg/mapping"
	"github.com/chris/coin-wallet-ledger/pkg/models"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Service is the part of the wallet service the balance-changing routes need.
type Service interface {
	Credit(ctx context.Context, accountID string, amount int64, referenceID string, kind models.TransactionKind) (*models.Transaction, error)
	Debit(ctx context.Context, accountID string, amount int64, referenceID string, kind models.TransactionKind) (*models.Transaction, error)
	Refund(ctx context.Context, originalTxID, referenceID string) (*models.Transaction, error)
	Adjust(ctx context.Context, accountID string, amount int64, referenceID, description string) (*models.Transaction, error)
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
}

// WalletsHandler holds the dependencies for wallet-related handlers.
type WalletsHandler struct {
	Service Service
}

// NewWalletsHandler creates a new WalletsHandler.
func NewWalletsHandler(service Service) *WalletsHandler {
	return &WalletsHandler{Service: service}
}

// Credit handles POST /wallet/credit.
func (h *WalletsHandler) Credit(w http.ResponseWriter, r *http.Request) {
	var req api.CreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.InvalidBody(w, err)
		return
	}

	tx, err := h.Service.Credit(r.Context(), req.AccountId, req.Amount, req.ReferenceId, mapping.ToDomainCreditKind(req.Kind))
	respond.Transaction(w, toApi(tx), err)
}

// Debit handles POST /wallet/debit.
func (h *WalletsHandler) Debit(w http.ResponseWriter, r *http.Request) {
	var req api.DebitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.InvalidBody(w, err)
		return
	}

	tx, err := h.Service.Debit(r.Context(), req.AccountId, req.Amount, req.ReferenceId, mapping.ToDomainDebitKind(req.Kind))
	respond.Transaction(w, toApi(tx), err)
}

// Adjust handles POST /wallet/adjust.
func (h *WalletsHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	var req api.AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.InvalidBody(w, err)
		return
	}

	var description string
	if req.Description != nil {
		description = *req.Description
	}
	tx, err := h.Service.Adjust(r.Context(), req.AccountId, req.Amount, req.ReferenceId, description)
	respond.Transaction(w, toApi(tx), err)
}

// RefundTransaction handles POST /wallet/{transactionId}/refund.
func (h *WalletsHandler) RefundTransaction(w http.ResponseWriter, r *http.Request, transactionId openapi_types.UUID) {
	var req api.RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.InvalidBody(w, err)
		return
	}

	tx, err := h.Service.Refund(r.Context(), transactionId.String(), req.ReferenceId)
	respond.Transaction(w, toApi(tx), err)
}

// GetBalance handles GET /wallet/balance.
func (h *WalletsHandler) GetBalance(w http.ResponseWriter, r *http.Request, params api.GetBalanceParams) {
	acct, err := h.Service.GetAccount(r.Context(), params.AccountId)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiBalance(acct))
}

func toApi(tx *models.Transaction) *api.Transaction {
	if tx == nil {
		return nil
	}
	return mapping.ToApiTransaction(tx)
}
