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

// ChangeCredentialUseCase replaces the session account's credential.
type ChangeCredentialUseCase struct {
	accounts  port.AccountRepository
	publisher port.EventPublisher
	sessions  *session.Manager
	logger    *slog.Logger
}

// NewChangeCredentialUseCase creates a new ChangeCredentialUseCase.
func NewChangeCredentialUseCase(
	accounts port.AccountRepository,
	publisher port.EventPublisher,
	sessions *session.Manager,
	logger *slog.Logger,
) *ChangeCredentialUseCase {
	return &ChangeCredentialUseCase{
		accounts:  accounts,
		publisher: publisher,
		sessions:  sessions,
		logger:    logger,
	}
}

// Execute replaces the credential if the old one matches exactly; otherwise
// nothing is stored.
func (uc *ChangeCredentialUseCase) Execute(ctx context.Context, req dto.ChangeCredentialRequest) error {
	iban, ok := uc.sessions.Current()
	if !ok {
		return model.ErrNotLoggedIn
	}

	account, err := uc.accounts.FindByIBAN(ctx, iban)
	if err != nil {
		return fmt.Errorf("failed to find account %s: %w", iban, err)
	}

	updated, err := account.ChangeCredential(req.OldCredential, req.NewCredential)
	if err != nil {
		return err
	}

	if err := uc.accounts.Save(ctx, updated); err != nil {
		return fmt.Errorf("failed to save account %s: %w", iban, err)
	}

	if err := uc.publisher.Publish(ctx, ledgerEventsTopic, event.NewCredentialChanged(iban.String())); err != nil {
		uc.logger.Error("failed to publish domain events", "error", err)
	}

	uc.logger.Info("credential changed", "identifier", iban.String())
	return nil
}
