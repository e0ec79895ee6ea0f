package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openkonto/bank/internal/application/dto"
	"github.com/openkonto/bank/internal/application/session"
	"github.com/openkonto/bank/internal/domain/event"
	"github.com/openkonto/bank/internal/domain/model"
	"github.com/openkonto/bank/internal/domain/port"
	"github.com/openkonto/bank/internal/domain/valueobject"
	"github.com/openkonto/bank/pkg/money"
)

const (
	// Accounts opened for holders younger than this receive the youth bonus.
	youthBonusAgeLimit = 16
	// maxGenerateAttempts bounds the identifier collision retry loop.
	maxGenerateAttempts = 5
)

// youthBonus is the flat opening bonus for underage holders.
var youthBonus = money.New(decimal.NewFromInt(50), money.EUR)

// OpenAccountUseCase handles account opening: identifier allocation, the
// youth bonus, and the optional starting deposit.
type OpenAccountUseCase struct {
	ledger    port.Ledger
	publisher port.EventPublisher
	sessions  *session.Manager
	country   valueobject.CountryCode
	bankCode  int
	operating valueobject.IBAN
	logger    *slog.Logger
}

// NewOpenAccountUseCase creates a new OpenAccountUseCase. The operating
// identifier is the bank's own account, used as the sender of opening
// cash transactions.
func NewOpenAccountUseCase(
	ledger port.Ledger,
	publisher port.EventPublisher,
	sessions *session.Manager,
	country valueobject.CountryCode,
	bankCode int,
	operating valueobject.IBAN,
	logger *slog.Logger,
) *OpenAccountUseCase {
	return &OpenAccountUseCase{
		ledger:    ledger,
		publisher: publisher,
		sessions:  sessions,
		country:   country,
		bankCode:  bankCode,
		operating: operating,
		logger:    logger,
	}
}

// Execute opens an account and returns its identifier. The new account
// becomes the authenticated session account.
func (uc *OpenAccountUseCase) Execute(ctx context.Context, req dto.OpenAccountRequest) (dto.AccountResponse, error) {
	holder, err := model.NewPerson(req.HolderFirstName, req.HolderLastName, req.HolderBirthDate)
	if err != nil {
		return dto.AccountResponse{}, fmt.Errorf("invalid holder: %w", err)
	}

	currency := money.EUR
	if req.Currency != "" {
		currency, err = money.ParseCode(req.Currency)
		if err != nil {
			return dto.AccountResponse{}, err
		}
	}

	iban, err := uc.allocateIdentifier(ctx)
	if err != nil {
		return dto.AccountResponse{}, err
	}

	account, err := model.NewAccount(holder, req.DisplayName, req.Credential, iban, currency)
	if err != nil {
		return dto.AccountResponse{}, err
	}

	if err := uc.ledger.Save(ctx, account); err != nil {
		return dto.AccountResponse{}, fmt.Errorf("failed to save account: %w", err)
	}

	// The youth bonus is applied before any other transaction.
	if holder.Age(time.Now().UTC()) < youthBonusAgeLimit {
		account, err = uc.postCash(ctx, account, youthBonus, "Youth Bonus")
		if err != nil {
			return dto.AccountResponse{}, err
		}
	}

	if req.StartingDeposit != nil {
		deposit, err := parseMoney(*req.StartingDeposit)
		if err != nil {
			return dto.AccountResponse{}, err
		}
		account, err = uc.postCash(ctx, account, deposit, "Starting credit")
		if err != nil {
			return dto.AccountResponse{}, err
		}
	}

	uc.sessions.Bind(iban)

	uc.publish(ctx, event.NewAccountOpened(iban.String(), holder.FullName(), string(currency)))

	uc.logger.Info("account opened",
		"identifier", iban.String(),
		"holder", holder.FullName(),
		"currency", currency,
	)

	return accountResponse(account), nil
}

func (uc *OpenAccountUseCase) allocateIdentifier(ctx context.Context) (valueobject.IBAN, error) {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		iban := valueobject.Generate(uc.country, uc.bankCode)
		taken, err := uc.ledger.Exists(ctx, iban)
		if err != nil {
			return valueobject.IBAN{}, fmt.Errorf("failed to check identifier: %w", err)
		}
		if !taken && !iban.Equal(uc.operating) {
			return iban, nil
		}
	}
	return valueobject.IBAN{}, fmt.Errorf("failed to allocate a unique identifier after %d attempts", maxGenerateAttempts)
}

func (uc *OpenAccountUseCase) postCash(ctx context.Context, account model.Account, amount money.Money, reference string) (model.Account, error) {
	tx := model.NewCashTransaction(amount, uc.operating, account.IBAN(), reference)

	applied, err := account.Apply(tx)
	if err != nil {
		return model.Account{}, err
	}
	if err := uc.ledger.PostCash(ctx, applied, tx); err != nil {
		return model.Account{}, fmt.Errorf("failed to post %s: %w", reference, err)
	}
	return applied, nil
}

func (uc *OpenAccountUseCase) publish(ctx context.Context, events ...event.DomainEvent) {
	if err := uc.publisher.Publish(ctx, ledgerEventsTopic, events...); err != nil {
		uc.logger.Error("failed to publish domain events", "error", err)
	}
}
