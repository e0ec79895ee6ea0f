package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openkonto/bank/internal/application/dto"
	"github.com/openkonto/bank/internal/application/session"
	"github.com/openkonto/bank/internal/domain/model"
	"github.com/openkonto/bank/internal/domain/port"
	"github.com/openkonto/bank/internal/domain/valueobject"
)

// LoginUseCase binds the session to an account after verifying its
// identifier and credential.
type LoginUseCase struct {
	accounts port.AccountRepository
	sessions *session.Manager
	logger   *slog.Logger
}

// NewLoginUseCase creates a new LoginUseCase.
func NewLoginUseCase(accounts port.AccountRepository, sessions *session.Manager, logger *slog.Logger) *LoginUseCase {
	return &LoginUseCase{accounts: accounts, sessions: sessions, logger: logger}
}

// Execute authenticates against the account under the given identifier. The
// identifier comes from external input, so its checksum is re-verified before
// it is trusted for the lookup.
func (uc *LoginUseCase) Execute(ctx context.Context, req dto.LoginRequest) (dto.AccountResponse, error) {
	iban, err := valueobject.Parse(req.Identifier)
	if err != nil {
		return dto.AccountResponse{}, err
	}
	if err := iban.Verify(); err != nil {
		return dto.AccountResponse{}, err
	}

	account, err := uc.accounts.FindByIBAN(ctx, iban)
	if err != nil {
		return dto.AccountResponse{}, fmt.Errorf("failed to find account %s: %w", iban, err)
	}

	if !account.Authenticate(req.Credential) {
		uc.logger.Info("login rejected", "identifier", iban.String())
		return dto.AccountResponse{}, model.ErrInvalidCredential
	}

	uc.sessions.Bind(iban)
	uc.logger.Info("login accepted", "identifier", iban.String())

	return accountResponse(account), nil
}
