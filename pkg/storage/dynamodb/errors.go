package dynamodb

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/coin-wallet-ledger/pkg/models"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
)

const (
	codeConditionalCheckFailed = "ConditionalCheckFailed"
	codeTransactionConflict    = "TransactionConflict"
)

// errAccountNotFound is internal: GetAccount turns it into a lazy creation.
var errAccountNotFound = errors.New("account not found")

// cancellationReasons returns the per-item reasons of a cancelled transactional write.
func cancellationReasons(err error) ([]types.CancellationReason, bool) {
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		return tce.CancellationReasons, true
	}
	return nil, false
}

func reasonCode(reasons []types.CancellationReason, i int) string {
	if i >= len(reasons) || reasons[i].Code == nil {
		return ""
	}
	return *reasons[i].Code
}

func anyReason(reasons []types.CancellationReason, code string) bool {
	for i := range reasons {
		if reasonCode(reasons, i) == code {
			return true
		}
	}
	return false
}

// classifyBalanceCondition decides why a conditional account update failed, given the
// item as it was when the condition was evaluated.
func classifyBalanceCondition(old map[string]types.AttributeValue, expectedVersion, delta int64) error {
	if old == nil {
		return storage.ErrVersionConflict
	}
	var acct models.Account
	if err := attributevalue.UnmarshalMap(old, &acct); err != nil {
		return storage.ErrVersionConflict
	}
	if acct.Version != expectedVersion {
		return storage.ErrVersionConflict
	}
	if err := storage.CheckDelta(acct.Balance, delta); err != nil {
		return err
	}
	return storage.ErrInsufficientBalance
}
