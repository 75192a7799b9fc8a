package storage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckDelta(t *testing.T) {
	tests := []struct {
		name    string
		balance int64
		delta   int64
		want    error
	}{
		{"Credit", 10, 5, nil},
		{"Debit to zero", 10, -10, nil},
		{"Debit below zero", 10, -11, ErrInsufficientBalance},
		{"Smallest delta", 10, math.MinInt64, ErrInsufficientBalance},
		{"Credit to the maximum", math.MaxInt64 - 1, 1, nil},
		{"Credit past the maximum", math.MaxInt64, 1, ErrBalanceOverflow},
		{"Largest credit on non-empty balance", 1, math.MaxInt64, ErrBalanceOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDelta(tt.balance, tt.delta)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
