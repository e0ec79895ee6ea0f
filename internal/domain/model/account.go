package model

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/openkonto/bank/internal/domain/valueobject"
	"github.com/openkonto/bank/pkg/money"
)

// Account is the root aggregate of the ledger. It is immutable; all state
// transitions return a new instance. Its identity is the IBAN, which is the
// unique key under which the store holds it. The balance is mutated only by
// applying transactions.
type Account struct {
	holder         Person
	displayName    string
	balance        money.Money
	iban           valueobject.IBAN
	credentialHash []byte
	version        int
	createdAt      time.Time
	updatedAt      time.Time
}

// NewAccount creates an account with a zero balance in the given currency.
// The credential is stored as a salted one-way hash.
func NewAccount(
	holder Person,
	displayName string,
	credential string,
	iban valueobject.IBAN,
	currency money.Code,
) (Account, error) {
	if displayName == "" {
		return Account{}, fmt.Errorf("display name is required")
	}
	if credential == "" {
		return Account{}, fmt.Errorf("credential is required")
	}
	if iban.IsZero() {
		return Account{}, fmt.Errorf("identifier is required")
	}

	hash, err := HashCredential(credential)
	if err != nil {
		return Account{}, err
	}

	now := time.Now().UTC()
	return Account{
		holder:         holder,
		displayName:    displayName,
		balance:        money.Zero(currency),
		iban:           iban,
		credentialHash: hash,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructAccount recreates an Account from persisted data without
// validation.
func ReconstructAccount(
	holder Person,
	displayName string,
	balance money.Money,
	iban valueobject.IBAN,
	credentialHash []byte,
	version int,
	createdAt, updatedAt time.Time,
) Account {
	return Account{
		holder:         holder,
		displayName:    displayName,
		balance:        balance,
		iban:           iban,
		credentialHash: credentialHash,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// Apply posts a transaction against this account and returns the updated
// account. The receiver side is checked first: a matching receiver identifier
// credits the balance, a matching sender identifier debits it. Cross-currency
// amounts convert into the account's balance currency. A transaction matching
// neither side returns ErrUnrelatedTransaction and leaves the balance
// untouched; correct orchestration never triggers it.
func (a Account) Apply(tx Transaction) (Account, error) {
	var (
		balance money.Money
		err     error
	)
	switch {
	case tx.Receiver().Equal(a.iban):
		balance, err = a.balance.Add(tx.Amount())
	case tx.Sender().Equal(a.iban):
		balance, err = a.balance.Sub(tx.Amount())
	default:
		return Account{}, fmt.Errorf("%w: %s", ErrUnrelatedTransaction, a.iban)
	}
	if err != nil {
		return Account{}, fmt.Errorf("failed to apply transaction %s: %w", tx.ID(), err)
	}

	updated := a
	updated.balance = balance
	updated.version = a.version + 1
	updated.updatedAt = time.Now().UTC()
	return updated, nil
}

// Authenticate compares the supplied credential against the stored hash.
// The comparison is constant-time.
func (a Account) Authenticate(credential string) bool {
	return bcrypt.CompareHashAndPassword(a.credentialHash, []byte(credential)) == nil
}

// ChangeCredential replaces the stored credential hash if the old credential
// matches. On mismatch no mutation occurs and ErrInvalidCredential is
// returned.
func (a Account) ChangeCredential(oldCredential, newCredential string) (Account, error) {
	if !a.Authenticate(oldCredential) {
		return Account{}, ErrInvalidCredential
	}
	if newCredential == "" {
		return Account{}, fmt.Errorf("new credential is required")
	}

	hash, err := HashCredential(newCredential)
	if err != nil {
		return Account{}, err
	}

	updated := a
	updated.credentialHash = hash
	updated.version = a.version + 1
	updated.updatedAt = time.Now().UTC()
	return updated, nil
}

// CheckClosable reports whether the account may be removed from the store.
// A negative balance always blocks closure, force or not. A positive balance
// blocks closure unless force is set. A zero balance always passes.
func (a Account) CheckClosable(force bool) error {
	if a.balance.IsNegative() {
		return ErrDebtsNotCleared
	}
	if a.balance.IsPositive() && !force {
		return ErrMoneyRemaining
	}
	return nil
}

// Holder returns the account holder.
func (a Account) Holder() Person {
	return a.holder
}

// DisplayName returns the customer-chosen account name.
func (a Account) DisplayName() string {
	return a.displayName
}

// Balance returns the current balance.
func (a Account) Balance() money.Money {
	return a.balance
}

// IBAN returns the account's identifier.
func (a Account) IBAN() valueobject.IBAN {
	return a.iban
}

// CredentialHash returns the stored credential hash. Exposed for persistence.
func (a Account) CredentialHash() []byte {
	return a.credentialHash
}

// Version returns the aggregate version, incremented on every transition.
func (a Account) Version() int {
	return a.version
}

// CreatedAt returns the opening timestamp.
func (a Account) CreatedAt() time.Time {
	return a.createdAt
}

// UpdatedAt returns the last transition timestamp.
func (a Account) UpdatedAt() time.Time {
	return a.updatedAt
}

// HashCredential derives a salted one-way hash from a credential.
func HashCredential(credential string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}
	return hash, nil
}
