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

// depositReference is the reference text of counter deposits.
const depositReference = "cash deposit"

// DepositCashUseCase credits the session account with a cash transaction
// whose sender is the bank's operating account.
type DepositCashUseCase struct {
	ledger    port.Ledger
	publisher port.EventPublisher
	sessions  *session.Manager
	operating valueobject.IBAN
	logger    *slog.Logger
}

// NewDepositCashUseCase creates a new DepositCashUseCase.
func NewDepositCashUseCase(
	ledger port.Ledger,
	publisher port.EventPublisher,
	sessions *session.Manager,
	operating valueobject.IBAN,
	logger *slog.Logger,
) *DepositCashUseCase {
	return &DepositCashUseCase{
		ledger:    ledger,
		publisher: publisher,
		sessions:  sessions,
		operating: operating,
		logger:    logger,
	}
}

// Execute deposits the requested amount into the session account. The
// transaction is applied to the receiver side only; the operating account
// carries no balance of its own.
func (uc *DepositCashUseCase) Execute(ctx context.Context, req dto.DepositRequest) (dto.TransactionResponse, error) {
	iban, ok := uc.sessions.Current()
	if !ok {
		return dto.TransactionResponse{}, model.ErrNotLoggedIn
	}

	amount, err := parseMoney(req.Amount)
	if err != nil {
		return dto.TransactionResponse{}, err
	}

	receiver, err := uc.ledger.FindByIBAN(ctx, iban)
	if err != nil {
		return dto.TransactionResponse{}, fmt.Errorf("failed to find account %s: %w", iban, err)
	}

	tx := model.NewCashTransaction(amount, uc.operating, iban, depositReference)

	credited, err := receiver.Apply(tx)
	if err != nil {
		return dto.TransactionResponse{}, err
	}

	if err := uc.ledger.PostCash(ctx, credited, tx); err != nil {
		return dto.TransactionResponse{}, fmt.Errorf("failed to post deposit: %w", err)
	}

	uc.publish(ctx, event.NewCashDeposited(
		tx.ID().String(),
		iban.String(),
		amount.Amount().String(),
		string(amount.Currency()),
	))

	uc.logger.Info("cash deposited",
		"transaction_id", tx.ID().String(),
		"receiver", iban.String(),
		"amount", amount.String(),
	)

	return transactionResponse(tx), nil
}

func (uc *DepositCashUseCase) publish(ctx context.Context, events ...event.DomainEvent) {
	if err := uc.publisher.Publish(ctx, ledgerEventsTopic, events...); err != nil {
		uc.logger.Error("failed to publish domain events", "error", err)
	}
}
