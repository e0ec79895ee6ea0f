// Package event defines the domain events emitted by the ledger.
package event

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface that all ledger events implement.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() string
	AggregateType() string
	OccurredAt() time.Time
}

// BaseEvent contains the common fields for all domain events.
type BaseEvent struct {
	ID             uuid.UUID `json:"event_id"`
	Type           string    `json:"event_type"`
	AggregateIDV   string    `json:"aggregate_id"`
	AggregateTypeV string    `json:"aggregate_type"`
	Timestamp      time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventID() uuid.UUID    { return e.ID }
func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) AggregateID() string   { return e.AggregateIDV }
func (e BaseEvent) AggregateType() string { return e.AggregateTypeV }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

func newBaseEvent(eventType, aggregateType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:             uuid.New(),
		Type:           eventType,
		AggregateIDV:   aggregateID,
		AggregateTypeV: aggregateType,
		Timestamp:      time.Now().UTC(),
	}
}

// AccountOpened is emitted when a new account is created.
type AccountOpened struct {
	BaseEvent
	Identifier string `json:"identifier"`
	HolderName string `json:"holder_name"`
	Currency   string `json:"currency"`
}

// NewAccountOpened creates an AccountOpened event.
func NewAccountOpened(identifier, holderName, currency string) AccountOpened {
	return AccountOpened{
		BaseEvent:  newBaseEvent("ledger.account.opened", "Account", identifier),
		Identifier: identifier,
		HolderName: holderName,
		Currency:   currency,
	}
}

// AccountClosed is emitted when an account is removed from the store.
type AccountClosed struct {
	BaseEvent
	Identifier string `json:"identifier"`
	Forced     bool   `json:"forced"`
}

// NewAccountClosed creates an AccountClosed event.
func NewAccountClosed(identifier string, forced bool) AccountClosed {
	return AccountClosed{
		BaseEvent:  newBaseEvent("ledger.account.closed", "Account", identifier),
		Identifier: identifier,
		Forced:     forced,
	}
}

// TransferPosted is emitted after both balance updates and the transaction
// record have been committed.
type TransferPosted struct {
	BaseEvent
	TransactionID string `json:"transaction_id"`
	Sender        string `json:"sender"`
	Receiver      string `json:"receiver"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Reference     string `json:"reference"`
}

// NewTransferPosted creates a TransferPosted event.
func NewTransferPosted(transactionID, sender, receiver, amount, currency, reference string) TransferPosted {
	return TransferPosted{
		BaseEvent:     newBaseEvent("ledger.transfer.posted", "Transaction", transactionID),
		TransactionID: transactionID,
		Sender:        sender,
		Receiver:      receiver,
		Amount:        amount,
		Currency:      currency,
		Reference:     reference,
	}
}

// CashDeposited is emitted after a cash transaction from the bank's operating
// account has been committed.
type CashDeposited struct {
	BaseEvent
	TransactionID string `json:"transaction_id"`
	Receiver      string `json:"receiver"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
}

// NewCashDeposited creates a CashDeposited event.
func NewCashDeposited(transactionID, receiver, amount, currency string) CashDeposited {
	return CashDeposited{
		BaseEvent:     newBaseEvent("ledger.cash.deposited", "Transaction", transactionID),
		TransactionID: transactionID,
		Receiver:      receiver,
		Amount:        amount,
		Currency:      currency,
	}
}

// CredentialChanged is emitted when an account's credential is replaced.
type CredentialChanged struct {
	BaseEvent
	Identifier string `json:"identifier"`
}

// NewCredentialChanged creates a CredentialChanged event.
func NewCredentialChanged(identifier string) CredentialChanged {
	return CredentialChanged{
		BaseEvent:  newBaseEvent("ledger.account.credential_changed", "Account", identifier),
		Identifier: identifier,
	}
}
