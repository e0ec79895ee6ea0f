// Package session tracks which account the interactive caller is
// authenticated against. The manager is an explicit object owned by the
// process, passed into the use cases that require a logged-in account.
package session

import (
	"sync"

	"github.com/openkonto/bank/internal/domain/valueobject"
)

// Manager holds the identifier of the currently authenticated account.
// Safe for concurrent use.
type Manager struct {
	mu    sync.Mutex
	iban  valueobject.IBAN
	bound bool
}

// NewManager creates an unauthenticated session manager.
func NewManager() *Manager {
	return &Manager{}
}

// Bind marks the session as authenticated for the given identifier,
// replacing any previous binding.
func (m *Manager) Bind(iban valueobject.IBAN) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.iban = iban
	m.bound = true
}

// Clear drops the current binding.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.iban = valueobject.IBAN{}
	m.bound = false
}

// Current returns the bound identifier, and false when no account is
// logged in.
func (m *Manager) Current() (valueobject.IBAN, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.iban, m.bound
}
