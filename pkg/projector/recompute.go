package projector

import (
	"context"
	"fmt"

	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/wallet"
)

// Recompute sums the amounts of the account's completed transactions in creation order.
// It reads only and never creates the account.
func (p *Projector) Recompute(ctx context.Context, accountID string) (int64, error) {
	if accountID == "" {
		return 0, fmt.Errorf("%w: accountId is required", wallet.ErrValidation)
	}
	txs, err := p.store.ListTransactions(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return sumCompleted(txs), nil
}

func sumCompleted(txs []models.Transaction) int64 {
	var balance int64
	for _, tx := range txs {
		if tx.Status == models.COMPLETED {
			balance += tx.Amount
		}
	}
	return balance
}
