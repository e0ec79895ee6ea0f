package model

import "errors"

// User-facing outcomes. These are returned as values for the caller to branch
// on, never raised as faults.
var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrNotLoggedIn       = errors.New("no authenticated session")
	ErrDebtsNotCleared   = errors.New("account balance is negative")
	ErrMoneyRemaining    = errors.New("account balance is not empty")
	ErrSameAccount       = errors.New("sender and receiver are the same account")
	ErrNotFound          = errors.New("record not found")
)

// ErrUnrelatedTransaction indicates a transaction was applied to an account
// that is neither its sender nor its receiver. This is an orchestration bug,
// not a user-facing condition.
var ErrUnrelatedTransaction = errors.New("transaction is not associated with this account")
