package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/openkonto/bank/internal/domain/valueobject"
	"github.com/openkonto/bank/pkg/money"
)

// ReferenceLength is the fixed width of a transaction reference. Shorter text
// is right-padded with spaces, longer text truncated.
const ReferenceLength = 15

// Transaction is an immutable record of a transfer between two identifiers.
// One transaction is applied to both the sending and the receiving account;
// it references the accounts by identifier but does not own them.
type Transaction struct {
	id        uuid.UUID
	amount    money.Money
	sender    valueobject.IBAN
	receiver  valueobject.IBAN
	reference string
	createdAt time.Time
}

// NewTransaction creates a transfer record between two accounts.
func NewTransaction(amount money.Money, sender, receiver valueobject.IBAN, reference string) Transaction {
	return Transaction{
		id:        uuid.New(),
		amount:    amount,
		sender:    sender,
		receiver:  receiver,
		reference: normalizeReference(reference),
		createdAt: time.Now().UTC(),
	}
}

// NewCashTransaction creates a transaction whose sender is the bank's own
// operating account. Used for deposits and bonuses.
func NewCashTransaction(amount money.Money, operating, receiver valueobject.IBAN, reference string) Transaction {
	return NewTransaction(amount, operating, receiver, reference)
}

// ReconstructTransaction recreates a Transaction from persisted data.
func ReconstructTransaction(
	id uuid.UUID,
	amount money.Money,
	sender, receiver valueobject.IBAN,
	reference string,
	createdAt time.Time,
) Transaction {
	return Transaction{
		id:        id,
		amount:    amount,
		sender:    sender,
		receiver:  receiver,
		reference: normalizeReference(reference),
		createdAt: createdAt,
	}
}

// ID returns the globally unique transaction identifier.
func (t Transaction) ID() uuid.UUID {
	return t.id
}

// Amount returns the transferred amount.
func (t Transaction) Amount() money.Money {
	return t.amount
}

// Sender returns the debited account's identifier.
func (t Transaction) Sender() valueobject.IBAN {
	return t.sender
}

// Receiver returns the credited account's identifier.
func (t Transaction) Receiver() valueobject.IBAN {
	return t.receiver
}

// Reference returns the reference text, exactly ReferenceLength characters.
func (t Transaction) Reference() string {
	return t.reference
}

// CreatedAt returns the creation timestamp.
func (t Transaction) CreatedAt() time.Time {
	return t.createdAt
}

// Involves returns true if the identifier is the sender or the receiver.
func (t Transaction) Involves(iban valueobject.IBAN) bool {
	return t.sender.Equal(iban) || t.receiver.Equal(iban)
}

func normalizeReference(reference string) string {
	if len(reference) >= ReferenceLength {
		return reference[:ReferenceLength]
	}
	padded := make([]byte, ReferenceLength)
	copy(padded, reference)
	for i := len(reference); i < ReferenceLength; i++ {
		padded[i] = ' '
	}
	return string(padded)
}
