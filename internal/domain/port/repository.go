package port

import (
	"context"

	"github.com/openkonto/bank/internal/domain/event"
	"github.com/openkonto/bank/internal/domain/model"
	"github.com/openkonto/bank/internal/domain/valueobject"
)

// AccountRepository is the persistence port for Account aggregates, keyed by
// identifier.
type AccountRepository interface {
	// Save persists an account, overwriting any existing record under the
	// same identifier.
	Save(ctx context.Context, account model.Account) error

	// FindByIBAN retrieves an account. Returns model.ErrNotFound on a miss.
	FindByIBAN(ctx context.Context, iban valueobject.IBAN) (model.Account, error)

	// Delete removes an account from the store.
	Delete(ctx context.Context, iban valueobject.IBAN) error

	// Exists reports whether an account is stored under the identifier.
	Exists(ctx context.Context, iban valueobject.IBAN) (bool, error)
}

// TransactionRepository is the append-only transaction log. Records are
// immutable and retained forever.
type TransactionRepository interface {
	// Append adds a transaction to the log. Appending the same transaction
	// id twice is a no-op.
	Append(ctx context.Context, tx model.Transaction) error

	// List returns all transactions in insertion order.
	List(ctx context.Context) ([]model.Transaction, error)

	// ListByIBAN returns the transactions involving the identifier as sender
	// or receiver, in insertion order. The store reconstructs an account's
	// history by this backward lookup; history is never stored on the
	// account itself.
	ListByIBAN(ctx context.Context, iban valueobject.IBAN) ([]model.Transaction, error)
}

// Ledger combines the repositories with the atomic commit boundary of the
// double-entry protocol.
type Ledger interface {
	AccountRepository
	TransactionRepository

	// PostTransfer persists both updated accounts and the transaction record
	// as one unit: either all three writes are visible, or none. Concurrent
	// readers never observe a half-applied transfer.
	PostTransfer(ctx context.Context, sender, receiver model.Account, tx model.Transaction) error

	// PostCash persists one updated account and a cash transaction from the
	// bank's operating account as one unit.
	PostCash(ctx context.Context, receiver model.Account, tx model.Transaction) error
}

// EventPublisher is the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, events ...event.DomainEvent) error
}
