package handlers

import (
	"github.com/chris/coin-wallet-ledger/pkg/api"
	"github.com/chris/coin-wallet-ledger/pkg/handlers/transactions"
	"github.com/chris/coin-wallet-ledger/pkg/handlers/wallets"
)

// ApiHandler implements the generated server interface by composing the
// per-resource handlers.
type ApiHandler struct {
	*wallets.WalletsHandler
	*transactions.TransactionsHandler
}

// Service is everything the HTTP layer needs from the wallet service.
type Service interface {
	wallets.Service
	transactions.Service
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(service Service, reconciler transactions.Reconciler) *ApiHandler {
	return &ApiHandler{
		WalletsHandler:      wallets.NewWalletsHandler(service),
		TransactionsHandler: transactions.NewTransactionsHandler(service, reconciler),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)
