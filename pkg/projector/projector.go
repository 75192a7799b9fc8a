// Package projector derives balances from the ledger and repairs accounts whose cached
// balance has drifted from it.
package projector

import (
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/chris/coin-wallet-ledger/pkg/metrics"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
	"github.com/chris/coin-wallet-ledger/pkg/wallet"
)

// DefaultParallelism bounds how many accounts ReconcileAll works on at once.
const DefaultParallelism = 8

// Projector recomputes and reconciles account balances.
type Projector struct {
	store       storage.LedgerStore
	logger      *slog.Logger
	metrics     *metrics.Metrics
	maxAttempts uint
	newBackOff  func() backoff.BackOff
	parallelism int
	now         func() time.Time
}

// Option configures a Projector.
type Option func(*Projector)

// WithLogger sets the logger. slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Projector) { p.logger = logger }
}

// WithMetrics records reconciliation outcomes and swept rows.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Projector) { p.metrics = m }
}

// WithMaxAttempts sets how many times a reconciliation is attempted on version conflicts.
func WithMaxAttempts(n int) Option {
	return func(p *Projector) {
		if n > 0 {
			p.maxAttempts = uint(n)
		}
	}
}

// WithBackOff replaces the retry delay policy.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(p *Projector) { p.newBackOff = newBackOff }
}

// WithParallelism sets how many accounts ReconcileAll reconciles concurrently.
func WithParallelism(n int) Option {
	return func(p *Projector) {
		if n > 0 {
			p.parallelism = n
		}
	}
}

// New creates a Projector over store. It shares the wallet's retry policy by default.
func New(store storage.LedgerStore, opts ...Option) *Projector {
	p := &Projector{
		store:       store,
		logger:      slog.Default(),
		maxAttempts: wallet.DefaultMaxAttempts,
		newBackOff:  wallet.NewBackOff,
		parallelism: DefaultParallelism,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
