package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openkonto/bank/internal/application/dto"
	"github.com/openkonto/bank/internal/application/session"
	"github.com/openkonto/bank/internal/domain/model"
	"github.com/openkonto/bank/internal/domain/port"
)

// GetStatementUseCase lists the session account's transaction history.
// History is reconstructed from the append-only log by identifier lookup, not
// read off the account.
type GetStatementUseCase struct {
	transactions port.TransactionRepository
	sessions     *session.Manager
	logger       *slog.Logger
}

// NewGetStatementUseCase creates a new GetStatementUseCase.
func NewGetStatementUseCase(
	transactions port.TransactionRepository,
	sessions *session.Manager,
	logger *slog.Logger,
) *GetStatementUseCase {
	return &GetStatementUseCase{transactions: transactions, sessions: sessions, logger: logger}
}

// Execute returns the session account's transactions in insertion order.
func (uc *GetStatementUseCase) Execute(ctx context.Context) (dto.StatementResponse, error) {
	iban, ok := uc.sessions.Current()
	if !ok {
		return dto.StatementResponse{}, model.ErrNotLoggedIn
	}

	txs, err := uc.transactions.ListByIBAN(ctx, iban)
	if err != nil {
		return dto.StatementResponse{}, fmt.Errorf("failed to list transactions for %s: %w", iban, err)
	}

	entries := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		entries = append(entries, transactionResponse(tx))
	}

	return dto.StatementResponse{
		Identifier: iban.String(),
		Entries:    entries,
	}, nil
}
