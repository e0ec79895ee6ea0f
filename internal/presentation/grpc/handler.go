package grpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/openkonto/bank/internal/application/dto"
	"github.com/openkonto/bank/internal/application/usecase"
	"github.com/openkonto/bank/internal/domain/model"
	"github.com/openkonto/bank/internal/domain/valueobject"
	"github.com/openkonto/bank/pkg/money"
)

// birthDateLayout is the wire format of holder birth dates.
const birthDateLayout = "2006-01-02"

// BankHandler implements the gRPC bank service handler.
type BankHandler struct {
	UnimplementedBankServiceServer

	openAccount      *usecase.OpenAccountUseCase
	login            *usecase.LoginUseCase
	transferFunds    *usecase.TransferFundsUseCase
	depositCash      *usecase.DepositCashUseCase
	closeAccount     *usecase.CloseAccountUseCase
	changeCredential *usecase.ChangeCredentialUseCase
	getStatement     *usecase.GetStatementUseCase
}

// NewBankHandler creates a new gRPC bank handler.
func NewBankHandler(
	openAccount *usecase.OpenAccountUseCase,
	login *usecase.LoginUseCase,
	transferFunds *usecase.TransferFundsUseCase,
	depositCash *usecase.DepositCashUseCase,
	closeAccount *usecase.CloseAccountUseCase,
	changeCredential *usecase.ChangeCredentialUseCase,
	getStatement *usecase.GetStatementUseCase,
) *BankHandler {
	return &BankHandler{
		openAccount:      openAccount,
		login:            login,
		transferFunds:    transferFunds,
		depositCash:      depositCash,
		closeAccount:     closeAccount,
		changeCredential: changeCredential,
		getStatement:     getStatement,
	}
}

// Money represents an amount plus currency on the wire.
type Money struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// OpenAccountRequest represents the gRPC request for opening an account.
type OpenAccountRequest struct {
	HolderFirstName string `json:"holder_first_name"`
	HolderLastName  string `json:"holder_last_name"`
	HolderBirthDate string `json:"holder_birth_date"`
	DisplayName     string `json:"display_name"`
	Credential      string `json:"credential"`
	Currency        string `json:"currency"`
	StartingDeposit *Money `json:"starting_deposit"`
}

// OpenAccountResponse represents the gRPC response for opening an account.
type OpenAccountResponse struct {
	Account *AccountResponse `json:"account"`
}

// LoginRequest represents the gRPC request for binding the session.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Credential string `json:"credential"`
}

// LoginResponse represents the gRPC response for a successful login.
type LoginResponse struct {
	Account *AccountResponse `json:"account"`
}

// TransferRequest represents the gRPC request for a transfer.
type TransferRequest struct {
	ToIdentifier string `json:"to_identifier"`
	Amount       *Money `json:"amount"`
	Reference    string `json:"reference"`
}

// TransferResponse represents the gRPC response for a transfer.
type TransferResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
}

// DepositRequest represents the gRPC request for a cash deposit.
type DepositRequest struct {
	Amount *Money `json:"amount"`
}

// DepositResponse represents the gRPC response for a cash deposit.
type DepositResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
}

// CloseAccountRequest represents the gRPC request for closing the session
// account.
type CloseAccountRequest struct {
	Credential string `json:"credential"`
	Force      bool   `json:"force"`
}

// CloseAccountResponse represents the gRPC response for closing an account.
type CloseAccountResponse struct {
	Closed bool `json:"closed"`
}

// ChangeCredentialRequest represents the gRPC request for replacing the
// session account's credential.
type ChangeCredentialRequest struct {
	OldCredential string `json:"old_credential"`
	NewCredential string `json:"new_credential"`
}

// ChangeCredentialResponse represents the gRPC response for a credential
// change.
type ChangeCredentialResponse struct {
	Changed bool `json:"changed"`
}

// GetStatementRequest represents the gRPC request for the session account's
// statement.
type GetStatementRequest struct{}

// GetStatementResponse represents the gRPC response for a statement.
type GetStatementResponse struct {
	Identifier   string                 `json:"identifier"`
	Transactions []*TransactionResponse `json:"transactions"`
}

// AccountResponse represents the gRPC response for an account.
type AccountResponse struct {
	Identifier        string `json:"identifier"`
	DisplayIdentifier string `json:"display_identifier"`
	DisplayName       string `json:"display_name"`
	HolderName        string `json:"holder_name"`
	Balance           string `json:"balance"`
	Currency          string `json:"currency"`
	Version           int32  `json:"version"`
}

// TransactionResponse represents the gRPC response for a transaction record.
type TransactionResponse struct {
	TransactionID string `json:"transaction_id"`
	Sender        string `json:"sender"`
	Receiver      string `json:"receiver"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Reference     string `json:"reference"`
	CreatedAt     string `json:"created_at"`
}

// OpenAccount handles the gRPC OpenAccount request.
func (h *BankHandler) OpenAccount(ctx context.Context, req *OpenAccountRequest) (*OpenAccountResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	birthDate, err := time.Parse(birthDateLayout, req.HolderBirthDate)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid holder_birth_date: %v", err))
	}

	in := dto.OpenAccountRequest{
		HolderFirstName: req.HolderFirstName,
		HolderLastName:  req.HolderLastName,
		HolderBirthDate: birthDate,
		DisplayName:     req.DisplayName,
		Credential:      req.Credential,
		Currency:        req.Currency,
	}
	if req.StartingDeposit != nil {
		in.StartingDeposit = &dto.MoneyRequest{
			Amount:   req.StartingDeposit.Amount,
			Currency: req.StartingDeposit.Currency,
		}
	}

	result, err := h.openAccount.Execute(ctx, in)
	if err != nil {
		return nil, mapError(err)
	}

	return &OpenAccountResponse{Account: toAccountResponse(result)}, nil
}

// Login handles the gRPC Login request.
func (h *BankHandler) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.login.Execute(ctx, dto.LoginRequest{
		Identifier: req.Identifier,
		Credential: req.Credential,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &LoginResponse{Account: toAccountResponse(result)}, nil
}

// Transfer handles the gRPC Transfer request.
func (h *BankHandler) Transfer(ctx context.Context, req *TransferRequest) (*TransferResponse, error) {
	if req == nil || req.Amount == nil {
		return nil, status.Error(codes.InvalidArgument, "amount is required")
	}

	result, err := h.transferFunds.Execute(ctx, dto.TransferRequest{
		ToIdentifier: req.ToIdentifier,
		Amount:       dto.MoneyRequest{Amount: req.Amount.Amount, Currency: req.Amount.Currency},
		Reference:    req.Reference,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &TransferResponse{Transaction: toTransactionResponse(result)}, nil
}

// Deposit handles the gRPC Deposit request.
func (h *BankHandler) Deposit(ctx context.Context, req *DepositRequest) (*DepositResponse, error) {
	if req == nil || req.Amount == nil {
		return nil, status.Error(codes.InvalidArgument, "amount is required")
	}

	result, err := h.depositCash.Execute(ctx, dto.DepositRequest{
		Amount: dto.MoneyRequest{Amount: req.Amount.Amount, Currency: req.Amount.Currency},
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &DepositResponse{Transaction: toTransactionResponse(result)}, nil
}

// CloseAccount handles the gRPC CloseAccount request.
func (h *BankHandler) CloseAccount(ctx context.Context, req *CloseAccountRequest) (*CloseAccountResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	err := h.closeAccount.Execute(ctx, dto.CloseAccountRequest{
		Credential: req.Credential,
		Force:      req.Force,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &CloseAccountResponse{Closed: true}, nil
}

// ChangeCredential handles the gRPC ChangeCredential request.
func (h *BankHandler) ChangeCredential(ctx context.Context, req *ChangeCredentialRequest) (*ChangeCredentialResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	err := h.changeCredential.Execute(ctx, dto.ChangeCredentialRequest{
		OldCredential: req.OldCredential,
		NewCredential: req.NewCredential,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &ChangeCredentialResponse{Changed: true}, nil
}

// GetStatement handles the gRPC GetStatement request.
func (h *BankHandler) GetStatement(ctx context.Context, req *GetStatementRequest) (*GetStatementResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.getStatement.Execute(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	transactions := make([]*TransactionResponse, 0, len(result.Entries))
	for _, entry := range result.Entries {
		transactions = append(transactions, toTransactionResponse(entry))
	}

	return &GetStatementResponse{
		Identifier:   result.Identifier,
		Transactions: transactions,
	}, nil
}

// mapError translates domain errors into gRPC status codes.
func mapError(err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidCredential),
		errors.Is(err, model.ErrNotLoggedIn):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrDebtsNotCleared),
		errors.Is(err, model.ErrMoneyRemaining),
		errors.Is(err, model.ErrSameAccount):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, money.ErrUnknownCurrency),
		errors.Is(err, valueobject.ErrInvalidFormat),
		errors.Is(err, valueobject.ErrInvalidCountryCode),
		errors.Is(err, valueobject.ErrInvalidChecksum),
		errors.Is(err, valueobject.ErrInvalidBankCode),
		errors.Is(err, valueobject.ErrInvalidAccountNumber):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func toAccountResponse(a dto.AccountResponse) *AccountResponse {
	return &AccountResponse{
		Identifier:        a.Identifier,
		DisplayIdentifier: a.DisplayIdentifier,
		DisplayName:       a.DisplayName,
		HolderName:        a.HolderName,
		Balance:           a.Balance,
		Currency:          a.Currency,
		Version:           int32(a.Version),
	}
}

func toTransactionResponse(tx dto.TransactionResponse) *TransactionResponse {
	return &TransactionResponse{
		TransactionID: tx.TransactionID,
		Sender:        tx.Sender,
		Receiver:      tx.Receiver,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		Reference:     tx.Reference,
		CreatedAt:     tx.CreatedAt.Format(time.RFC3339),
	}
}
