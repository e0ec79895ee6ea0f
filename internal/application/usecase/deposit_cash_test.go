package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkonto/bank/internal/application/dto"
	"github.com/openkonto/bank/internal/application/session"
	"github.com/openkonto/bank/internal/application/usecase"
	"github.com/openkonto/bank/internal/domain/model"
	"github.com/openkonto/bank/pkg/money"
)

func TestDepositCashUseCase_Execute(t *testing.T) {
	t.Run("credits the session account from the operating account", func(t *testing.T) {
		ledger := ledgerWith(accountAt(t, ibanA, 10))
		uc := usecase.NewDepositCashUseCase(ledger, &mockEventPublisher{}, loggedInSession(ibanA), testOperatingIBAN, testLogger())

		resp, err := uc.Execute(context.Background(), dto.DepositRequest{
			Amount: dto.MoneyRequest{Amount: "25", Currency: "EUR"},
		})
		require.NoError(t, err)

		require.Len(t, ledger.postedCash, 1)
		posted := ledger.postedCash[0]
		assert.True(t, posted.account.Balance().Equal(money.New(decimal.NewFromInt(35), money.EUR)))
		assert.True(t, posted.tx.Sender().Equal(testOperatingIBAN))
		assert.True(t, posted.tx.Receiver().Equal(ibanA))
		assert.Equal(t, "cash deposit", strings.TrimRight(posted.tx.Reference(), " "))
		assert.Equal(t, posted.tx.ID().String(), resp.TransactionID)
	})

	t.Run("converts a foreign currency into the account currency", func(t *testing.T) {
		ledger := ledgerWith(accountAt(t, ibanA, 0))
		uc := usecase.NewDepositCashUseCase(ledger, &mockEventPublisher{}, loggedInSession(ibanA), testOperatingIBAN, testLogger())

		_, err := uc.Execute(context.Background(), dto.DepositRequest{
			Amount: dto.MoneyRequest{Amount: "100", Currency: "USD"},
		})
		require.NoError(t, err)

		require.Len(t, ledger.postedCash, 1)
		balance := ledger.postedCash[0].account.Balance()
		assert.Equal(t, money.EUR, balance.Currency())

		want, err := money.New(decimal.NewFromInt(100), money.USD).Convert(money.EUR)
		require.NoError(t, err)
		assert.True(t, balance.Equal(want))
	})

	t.Run("fails without an authenticated session", func(t *testing.T) {
		uc := usecase.NewDepositCashUseCase(ledgerWith(), &mockEventPublisher{}, session.NewManager(), testOperatingIBAN, testLogger())

		_, err := uc.Execute(context.Background(), dto.DepositRequest{
			Amount: dto.MoneyRequest{Amount: "25", Currency: "EUR"},
		})
		assert.ErrorIs(t, err, model.ErrNotLoggedIn)
	})

	t.Run("rejects an unknown currency", func(t *testing.T) {
		ledger := ledgerWith(accountAt(t, ibanA, 0))
		uc := usecase.NewDepositCashUseCase(ledger, &mockEventPublisher{}, loggedInSession(ibanA), testOperatingIBAN, testLogger())

		_, err := uc.Execute(context.Background(), dto.DepositRequest{
			Amount: dto.MoneyRequest{Amount: "25", Currency: "XYZ"},
		})
		assert.ErrorIs(t, err, money.ErrUnknownCurrency)
		assert.Empty(t, ledger.postedCash)
	})

	t.Run("a failed commit publishes nothing", func(t *testing.T) {
		ledger := ledgerWith(accountAt(t, ibanA, 0))
		ledger.postCashFunc = func(context.Context, model.Account, model.Transaction) error {
			return fmt.Errorf("store unavailable")
		}
		publisher := &mockEventPublisher{}
		uc := usecase.NewDepositCashUseCase(ledger, publisher, loggedInSession(ibanA), testOperatingIBAN, testLogger())

		_, err := uc.Execute(context.Background(), dto.DepositRequest{
			Amount: dto.MoneyRequest{Amount: "25", Currency: "EUR"},
		})
		require.Error(t, err)
		assert.Empty(t, publisher.publishedEvents)
	})
}
