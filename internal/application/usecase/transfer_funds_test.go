package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkonto/bank/internal/application/dto"
	"github.com/openkonto/bank/internal/application/session"
	"github.com/openkonto/bank/internal/application/usecase"
	"github.com/openkonto/bank/internal/domain/model"
	"github.com/openkonto/bank/internal/domain/valueobject"
	"github.com/openkonto/bank/pkg/money"
)

var (
	ibanA = valueobject.New(valueobject.CountryDE, testBankCode, 1234567890)
	ibanB = valueobject.New(valueobject.CountryDE, 37040044, 532013000)
)

func accountAt(t *testing.T, iban valueobject.IBAN, balance int64) model.Account {
	t.Helper()
	holder, err := model.NewPerson("Greta", "Brandt", time.Date(1990, 3, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	acct, err := model.NewAccount(holder, "Girokonto", "hunter2", iban, money.EUR)
	require.NoError(t, err)
	return model.ReconstructAccount(
		acct.Holder(), acct.DisplayName(),
		money.New(decimal.NewFromInt(balance), money.EUR),
		acct.IBAN(), acct.CredentialHash(), acct.Version(), acct.CreatedAt(), acct.UpdatedAt(),
	)
}

func ledgerWith(accounts ...model.Account) *mockLedger {
	byIBAN := make(map[valueobject.IBAN]model.Account, len(accounts))
	for _, acct := range accounts {
		byIBAN[acct.IBAN()] = acct
	}
	return &mockLedger{
		findByIBANFunc: func(_ context.Context, iban valueobject.IBAN) (model.Account, error) {
			acct, ok := byIBAN[iban]
			if !ok {
				return model.Account{}, model.ErrNotFound
			}
			return acct, nil
		},
	}
}

func loggedInSession(iban valueobject.IBAN) *session.Manager {
	s := session.NewManager()
	s.Bind(iban)
	return s
}

func TestTransferFundsUseCase_Execute(t *testing.T) {
	t.Run("debits the sender and credits the receiver", func(t *testing.T) {
		ledger := ledgerWith(accountAt(t, ibanA, 100), accountAt(t, ibanB, 0))
		publisher := &mockEventPublisher{}
		uc := usecase.NewTransferFundsUseCase(ledger, publisher, loggedInSession(ibanA), testLogger())

		resp, err := uc.Execute(context.Background(), dto.TransferRequest{
			ToIdentifier: ibanB.String(),
			Amount:       dto.MoneyRequest{Amount: "40", Currency: "EUR"},
			Reference:    "rent",
		})
		require.NoError(t, err)

		require.Len(t, ledger.postedTransfers, 1)
		posted := ledger.postedTransfers[0]
		assert.True(t, posted.sender.Balance().Equal(money.New(decimal.NewFromInt(60), money.EUR)))
		assert.True(t, posted.receiver.Balance().Equal(money.New(decimal.NewFromInt(40), money.EUR)))
		assert.True(t, posted.tx.Sender().Equal(ibanA))
		assert.True(t, posted.tx.Receiver().Equal(ibanB))
		assert.Equal(t, "rent           ", posted.tx.Reference())

		assert.Equal(t, posted.tx.ID().String(), resp.TransactionID)
		assert.Len(t, resp.Reference, model.ReferenceLength)
		assert.NotEmpty(t, publisher.publishedEvents)
	})

	t.Run("fails without an authenticated session", func(t *testing.T) {
		ledger := ledgerWith(accountAt(t, ibanA, 100), accountAt(t, ibanB, 0))
		uc := usecase.NewTransferFundsUseCase(ledger, &mockEventPublisher{}, session.NewManager(), testLogger())

		_, err := uc.Execute(context.Background(), dto.TransferRequest{
			ToIdentifier: ibanB.String(),
			Amount:       dto.MoneyRequest{Amount: "40", Currency: "EUR"},
		})
		assert.ErrorIs(t, err, model.ErrNotLoggedIn)
		assert.Empty(t, ledger.postedTransfers)
	})

	t.Run("rejects a destination with a bad checksum", func(t *testing.T) {
		ledger := ledgerWith(accountAt(t, ibanA, 100))
		uc := usecase.NewTransferFundsUseCase(ledger, &mockEventPublisher{}, loggedInSession(ibanA), testLogger())

		_, err := uc.Execute(context.Background(), dto.TransferRequest{
			ToIdentifier: "DE00370400440532013000",
			Amount:       dto.MoneyRequest{Amount: "40", Currency: "EUR"},
		})
		assert.ErrorIs(t, err, valueobject.ErrInvalidChecksum)
	})

	t.Run("rejects a transfer to the same account", func(t *testing.T) {
		ledger := ledgerWith(accountAt(t, ibanA, 100))
		uc := usecase.NewTransferFundsUseCase(ledger, &mockEventPublisher{}, loggedInSession(ibanA), testLogger())

		_, err := uc.Execute(context.Background(), dto.TransferRequest{
			ToIdentifier: ibanA.String(),
			Amount:       dto.MoneyRequest{Amount: "40", Currency: "EUR"},
		})
		assert.ErrorIs(t, err, model.ErrSameAccount)
	})

	t.Run("fails when the receiver does not exist", func(t *testing.T) {
		ledger := ledgerWith(accountAt(t, ibanA, 100))
		uc := usecase.NewTransferFundsUseCase(ledger, &mockEventPublisher{}, loggedInSession(ibanA), testLogger())

		_, err := uc.Execute(context.Background(), dto.TransferRequest{
			ToIdentifier: ibanB.String(),
			Amount:       dto.MoneyRequest{Amount: "40", Currency: "EUR"},
		})
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.Empty(t, ledger.postedTransfers)
	})

	t.Run("nothing is posted when the commit fails", func(t *testing.T) {
		ledger := ledgerWith(accountAt(t, ibanA, 100), accountAt(t, ibanB, 0))
		ledger.postTransferFunc = func(_ context.Context, _, _ model.Account, _ model.Transaction) error {
			return fmt.Errorf("store unavailable")
		}
		publisher := &mockEventPublisher{}
		uc := usecase.NewTransferFundsUseCase(ledger, publisher, loggedInSession(ibanA), testLogger())

		_, err := uc.Execute(context.Background(), dto.TransferRequest{
			ToIdentifier: ibanB.String(),
			Amount:       dto.MoneyRequest{Amount: "40", Currency: "EUR"},
		})
		require.Error(t, err)
		assert.Empty(t, ledger.postedTransfers)
		assert.Empty(t, publisher.publishedEvents)
	})

	t.Run("overdraft is representable", func(t *testing.T) {
		ledger := ledgerWith(accountAt(t, ibanA, 10), accountAt(t, ibanB, 0))
		uc := usecase.NewTransferFundsUseCase(ledger, &mockEventPublisher{}, loggedInSession(ibanA), testLogger())

		_, err := uc.Execute(context.Background(), dto.TransferRequest{
			ToIdentifier: ibanB.String(),
			Amount:       dto.MoneyRequest{Amount: "40", Currency: "EUR"},
		})
		require.NoError(t, err)
		require.Len(t, ledger.postedTransfers, 1)
		assert.True(t, ledger.postedTransfers[0].sender.Balance().IsNegative())
	})
}
