// Package memory provides an in-process store for the ledger. It backs the
// default configuration and the test suites; the postgres package is its
// durable counterpart.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/openkonto/bank/internal/domain/model"
	"github.com/openkonto/bank/internal/domain/valueobject"
)

// Store implements port.Ledger. A single mutex covers accounts and the
// transaction log, so PostTransfer and PostCash commit both sides as one
// unit.
type Store struct {
	mu           sync.RWMutex
	accounts     map[valueobject.IBAN]model.Account
	transactions []model.Transaction
	txIndex      map[uuid.UUID]struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[valueobject.IBAN]model.Account),
		txIndex:  make(map[uuid.UUID]struct{}),
	}
}

// Save inserts or replaces the account under its identifier.
func (s *Store) Save(_ context.Context, account model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.IBAN()] = account
	return nil
}

// FindByIBAN returns the account stored under the identifier.
func (s *Store) FindByIBAN(_ context.Context, iban valueobject.IBAN) (model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[iban]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return account, nil
}

// Delete removes the account. The transaction log keeps its history.
func (s *Store) Delete(_ context.Context, iban valueobject.IBAN) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[iban]; !ok {
		return model.ErrNotFound
	}
	delete(s.accounts, iban)
	return nil
}

// Exists reports whether an account is stored under the identifier.
func (s *Store) Exists(_ context.Context, iban valueobject.IBAN) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[iban]
	return ok, nil
}

// Append adds the transaction to the log. Appending an already recorded
// transaction id is a no-op.
func (s *Store) Append(_ context.Context, tx model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.append(tx)
	return nil
}

// List returns all transactions in insertion order.
func (s *Store) List(_ context.Context) ([]model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out, nil
}

// ListByIBAN returns the transactions involving the identifier, in insertion
// order.
func (s *Store) ListByIBAN(_ context.Context, iban valueobject.IBAN) ([]model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Transaction
	for _, tx := range s.transactions {
		if tx.Involves(iban) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// PostTransfer stores both updated accounts and the transaction record under
// one lock acquisition. Readers never observe one side without the other.
func (s *Store) PostTransfer(_ context.Context, sender, receiver model.Account, tx model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[sender.IBAN()] = sender
	s.accounts[receiver.IBAN()] = receiver
	s.append(tx)
	return nil
}

// PostCash stores the credited account and the transaction record.
func (s *Store) PostCash(_ context.Context, receiver model.Account, tx model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[receiver.IBAN()] = receiver
	s.append(tx)
	return nil
}

// append requires s.mu to be held.
func (s *Store) append(tx model.Transaction) {
	if _, ok := s.txIndex[tx.ID()]; ok {
		return
	}
	s.txIndex[tx.ID()] = struct{}{}
	s.transactions = append(s.transactions, tx)
}
