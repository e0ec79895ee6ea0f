package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openkonto/bank/internal/application/dto"
	"github.com/openkonto/bank/internal/application/session"
	"github.com/openkonto/bank/internal/domain/event"
	"github.com/openkonto/bank/internal/domain/model"
	"github.com/openkonto/bank/internal/domain/port"
	"github.com/openkonto/bank/internal/domain/valueobject"
)

// TransferFundsUseCase executes the double-entry transfer protocol: one
// immutable transaction applied to the sending and the receiving account,
// committed together with the log record as a single unit.
type TransferFundsUseCase struct {
	ledger    port.Ledger
	publisher port.EventPublisher
	sessions  *session.Manager
	logger    *slog.Logger
}

// NewTransferFundsUseCase creates a new TransferFundsUseCase.
func NewTransferFundsUseCase(
	ledger port.Ledger,
	publisher port.EventPublisher,
	sessions *session.Manager,
	logger *slog.Logger,
) *TransferFundsUseCase {
	return &TransferFundsUseCase{
		ledger:    ledger,
		publisher: publisher,
		sessions:  sessions,
		logger:    logger,
	}
}

// Execute transfers the requested amount from the session account to the
// destination account.
func (uc *TransferFundsUseCase) Execute(ctx context.Context, req dto.TransferRequest) (dto.TransactionResponse, error) {
	from, ok := uc.sessions.Current()
	if !ok {
		return dto.TransactionResponse{}, model.ErrNotLoggedIn
	}

	to, err := valueobject.Parse(req.ToIdentifier)
	if err != nil {
		return dto.TransactionResponse{}, err
	}
	if err := to.Verify(); err != nil {
		return dto.TransactionResponse{}, err
	}
	if to.Equal(from) {
		return dto.TransactionResponse{}, model.ErrSameAccount
	}

	amount, err := parseMoney(req.Amount)
	if err != nil {
		return dto.TransactionResponse{}, err
	}

	sender, err := uc.ledger.FindByIBAN(ctx, from)
	if err != nil {
		return dto.TransactionResponse{}, fmt.Errorf("failed to find sender %s: %w", from, err)
	}
	receiver, err := uc.ledger.FindByIBAN(ctx, to)
	if err != nil {
		return dto.TransactionResponse{}, fmt.Errorf("failed to find receiver %s: %w", to, err)
	}

	tx := model.NewTransaction(amount, from, to, req.Reference)

	debited, err := sender.Apply(tx)
	if err != nil {
		return dto.TransactionResponse{}, err
	}
	credited, err := receiver.Apply(tx)
	if err != nil {
		return dto.TransactionResponse{}, err
	}

	if err := uc.ledger.PostTransfer(ctx, debited, credited, tx); err != nil {
		return dto.TransactionResponse{}, fmt.Errorf("failed to post transfer: %w", err)
	}

	uc.publish(ctx, event.NewTransferPosted(
		tx.ID().String(),
		from.String(),
		to.String(),
		amount.Amount().String(),
		string(amount.Currency()),
		tx.Reference(),
	))

	uc.logger.Info("transfer posted",
		"transaction_id", tx.ID().String(),
		"sender", from.String(),
		"receiver", to.String(),
		"amount", amount.String(),
	)

	return transactionResponse(tx), nil
}

func (uc *TransferFundsUseCase) publish(ctx context.Context, events ...event.DomainEvent) {
	if err := uc.publisher.Publish(ctx, ledgerEventsTopic, events...); err != nil {
		uc.logger.Error("failed to publish domain events", "error", err)
	}
}
