// Package dto defines the request and response types of the ledger's
// application layer.
package dto

import "time"

// MoneyRequest carries an amount as text plus a currency code.
type MoneyRequest struct {
	Amount   string
	Currency string
}

// OpenAccountRequest carries the input for opening an account.
type OpenAccountRequest struct {
	HolderFirstName string
	HolderLastName  string
	HolderBirthDate time.Time
	DisplayName     string
	Credential      string
	// Currency of the account balance. Defaults to EUR when empty.
	Currency string
	// StartingDeposit is optional; nil means no opening deposit.
	StartingDeposit *MoneyRequest
}

// AccountResponse describes an account to the caller.
type AccountResponse struct {
	Identifier        string
	DisplayIdentifier string
	DisplayName       string
	HolderName        string
	Balance           string
	Currency          string
	Version           int
	CreatedAt         time.Time
}

// LoginRequest carries the credentials for binding a session.
type LoginRequest struct {
	Identifier string
	Credential string
}

// TransferRequest carries the input for a transfer from the session account.
type TransferRequest struct {
	ToIdentifier string
	Amount       MoneyRequest
	Reference    string
}

// DepositRequest carries the input for a cash deposit to the session account.
type DepositRequest struct {
	Amount MoneyRequest
}

// TransactionResponse describes one transaction record.
type TransactionResponse struct {
	TransactionID string
	Sender        string
	Receiver      string
	Amount        string
	Currency      string
	Reference     string
	CreatedAt     time.Time
}

// CloseAccountRequest carries the input for closing the session account.
type CloseAccountRequest struct {
	Credential string
	// Force permits closing an account whose balance is still positive.
	// It never overrides a negative balance.
	Force bool
}

// ChangeCredentialRequest carries the input for replacing the session
// account's credential.
type ChangeCredentialRequest struct {
	OldCredential string
	NewCredential string
}

// StatementResponse lists the session account's transactions in insertion
// order.
type StatementResponse struct {
	Identifier string
	Entries    []TransactionResponse
}
