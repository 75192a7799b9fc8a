package mapping

import (
	"github.com/chris/coin-wallet-ledger/pkg/api"
	"github.com/chris/coin-wallet-ledger/pkg/models"
)

// ToApiTransaction converts a domain Transaction model to an API Transaction model.
func ToApiTransaction(tx *models.Transaction) *api.Transaction {
	return &api.Transaction{
		Id:                   tx.Id,
		AccountId:            tx.AccountId,
		Kind:                 api.TransactionKind(tx.Kind),
		Amount:               tx.Amount,
		BalanceAfter:         tx.BalanceAfter,
		Status:               api.TransactionStatus(tx.Status),
		ReferenceId:          tx.ReferenceId,
		RefundsTransactionId: optional(tx.RefundsTransactionId),
		RefundedBy:           optional(tx.RefundedBy),
		FailureReason:        optional(string(tx.FailureReason)),
		Description:          optional(tx.Description),
		CreatedAt:            tx.CreatedAt,
		CompletedAt:          tx.CompletedAt,
	}
}

// ToApiTransactions converts a slice of domain transactions, preserving order.
func ToApiTransactions(txs []models.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txs))
	for i := range txs {
		out[i] = ToApiTransaction(&txs[i])
	}
	return out
}

// ToApiBalance converts a domain Account model to an API Balance model.
func ToApiBalance(acct *models.Account) *api.Balance {
	return &api.Balance{
		AccountId: acct.AccountId,
		Balance:   acct.Balance,
		Version:   acct.Version,
	}
}

// ToApiReconciliationReport converts a domain report to its API model.
func ToApiReconciliationReport(report *models.ReconciliationReport) *api.ReconciliationReport {
	out := &api.ReconciliationReport{
		AccountId:    report.AccountId,
		Cached:       report.Cached,
		Recomputed:   report.Recomputed,
		Drift:        report.Drift,
		ReconciledAt: report.ReconciledAt,
	}
	if report.Adjustment != nil {
		out.Adjustment = ToApiTransaction(report.Adjustment)
	}
	if report.NeedsReview {
		needsReview := true
		out.NeedsReview = &needsReview
	}
	return out
}

// ToDomainCreditKind returns the requested kind, or "" to let the service default it.
func ToDomainCreditKind(kind *api.CreditRequestKind) models.TransactionKind {
	if kind == nil {
		return ""
	}
	return models.TransactionKind(*kind)
}

// ToDomainDebitKind returns the requested kind, or "" to let the service default it.
func ToDomainDebitKind(kind *api.DebitRequestKind) models.TransactionKind {
	if kind == nil {
		return ""
	}
	return models.TransactionKind(*kind)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
