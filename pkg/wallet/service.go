// Package wallet is the only entry point allowed to change coin balances. Every operation
// appends a pending ledger row, then commits it together with the balance change under an
// optimistic version check, retrying on conflicts.
package wallet

import (
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/chris/coin-wallet-ledger/pkg/metrics"
	"github.com/chris/coin-wallet-ledger/pkg/storage"
)

const (
	// DefaultMaxAttempts bounds the version-conflict retry loop.
	DefaultMaxAttempts = 3

	defaultInitialInterval = 10 * time.Millisecond
	defaultMaxInterval     = 200 * time.Millisecond
)

// Service implements credit, debit, refund and adjustment on top of a LedgerStore.
type Service struct {
	store       storage.LedgerStore
	logger      *slog.Logger
	metrics     *metrics.Metrics
	maxAttempts uint
	newBackOff  func() backoff.BackOff
}

// Option configures a Service.
type Option func(*Service)

// WithMaxAttempts sets how many times an operation is attempted on version conflicts.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = uint(n)
		}
	}
}

// WithLogger sets the logger. slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics records operation outcomes and conflicts.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithBackOff replaces the retry delay policy. Tests use it to avoid sleeping.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(s *Service) { s.newBackOff = newBackOff }
}

// NewBackOff returns the default policy: exponential from 10ms, doubling, with 50% jitter,
// capped at 200ms.
func NewBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = defaultInitialInterval
	b.Multiplier = 2
	b.RandomizationFactor = 0.5
	b.MaxInterval = defaultMaxInterval
	return b
}

// New creates a Service backed by store.
func New(store storage.LedgerStore, opts ...Option) *Service {
	s := &Service{
		store:       store,
		logger:      slog.Default(),
		maxAttempts: DefaultMaxAttempts,
		newBackOff:  NewBackOff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
