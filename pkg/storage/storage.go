package storage

// LedgerStore defines the root interface for the entire data layer.
// It composes all available storage operations. Components should depend on the
// more granular interfaces (AccountStore, TransactionReader, LedgerWriter) when
// they only need part of it.
type LedgerStore interface {
	AccountStore
	TransactionReader
	LedgerWriter
}
