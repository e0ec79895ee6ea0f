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
)

// CloseAccountUseCase removes the session account from the store once its
// balance constraints are satisfied.
type CloseAccountUseCase struct {
	ledger    port.Ledger
	publisher port.EventPublisher
	sessions  *session.Manager
	logger    *slog.Logger
}

// NewCloseAccountUseCase creates a new CloseAccountUseCase.
func NewCloseAccountUseCase(
	ledger port.Ledger,
	publisher port.EventPublisher,
	sessions *session.Manager,
	logger *slog.Logger,
) *CloseAccountUseCase {
	return &CloseAccountUseCase{
		ledger:    ledger,
		publisher: publisher,
		sessions:  sessions,
		logger:    logger,
	}
}

// Execute closes the session account. The checks run in a fixed order:
// credential, then debts, then remaining money. A zero balance always closes;
// force only overrides a positive balance, never a negative one.
func (uc *CloseAccountUseCase) Execute(ctx context.Context, req dto.CloseAccountRequest) error {
	iban, ok := uc.sessions.Current()
	if !ok {
		return model.ErrNotLoggedIn
	}

	account, err := uc.ledger.FindByIBAN(ctx, iban)
	if err != nil {
		return fmt.Errorf("failed to find account %s: %w", iban, err)
	}

	if !account.Authenticate(req.Credential) {
		return model.ErrInvalidCredential
	}

	if err := account.CheckClosable(req.Force); err != nil {
		return err
	}

	if err := uc.ledger.Delete(ctx, iban); err != nil {
		return fmt.Errorf("failed to delete account %s: %w", iban, err)
	}

	uc.sessions.Clear()

	if err := uc.publisher.Publish(ctx, ledgerEventsTopic, event.NewAccountClosed(iban.String(), req.Force)); err != nil {
		uc.logger.Error("failed to publish domain events", "error", err)
	}

	uc.logger.Info("account closed", "identifier", iban.String(), "forced", req.Force)
	return nil
}
