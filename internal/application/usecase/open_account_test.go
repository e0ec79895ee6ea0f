package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkonto/bank/internal/application/dto"
	"github.com/openkonto/bank/internal/application/session"
	"github.com/openkonto/bank/internal/application/usecase"
	"github.com/openkonto/bank/internal/domain/valueobject"
	"github.com/openkonto/bank/pkg/money"
)

const testBankCode = 30120400

var testOperatingIBAN = valueobject.New(valueobject.CountryDE, testBankCode, 1)

func newOpenAccountUC(ledger *mockLedger, publisher *mockEventPublisher, sessions *session.Manager) *usecase.OpenAccountUseCase {
	return usecase.NewOpenAccountUseCase(
		ledger, publisher, sessions,
		valueobject.CountryDE, testBankCode, testOperatingIBAN,
		testLogger(),
	)
}

func adultBirthDate() time.Time {
	return time.Now().UTC().AddDate(-30, 0, 0)
}

func childBirthDate() time.Time {
	return time.Now().UTC().AddDate(-10, 0, 0)
}

func TestOpenAccountUseCase_Execute(t *testing.T) {
	t.Run("adult with starting deposit gets exactly that balance", func(t *testing.T) {
		ledger := &mockLedger{}
		publisher := &mockEventPublisher{}
		sessions := session.NewManager()
		uc := newOpenAccountUC(ledger, publisher, sessions)

		resp, err := uc.Execute(context.Background(), dto.OpenAccountRequest{
			HolderFirstName: "Greta",
			HolderLastName:  "Brandt",
			HolderBirthDate: adultBirthDate(),
			DisplayName:     "Girokonto",
			Credential:      "hunter2",
			StartingDeposit: &dto.MoneyRequest{Amount: "100", Currency: "EUR"},
		})
		require.NoError(t, err)

		assert.Equal(t, "100", resp.Balance)
		assert.Equal(t, "EUR", resp.Currency)

		// No youth bonus: exactly one cash transaction, the starting credit.
		require.Len(t, ledger.postedCash, 1)
		assert.Equal(t, "Starting credit", strings.TrimRight(ledger.postedCash[0].tx.Reference(), " "))
		assert.True(t, ledger.postedCash[0].tx.Sender().Equal(testOperatingIBAN))

		// The generated identifier is valid and bound to the session.
		iban, err := valueobject.Parse(resp.Identifier)
		require.NoError(t, err)
		require.NoError(t, iban.Verify())
		current, ok := sessions.Current()
		require.True(t, ok)
		assert.True(t, current.Equal(iban))

		assert.NotEmpty(t, publisher.publishedEvents)
	})

	t.Run("underage holder gets the 50 EUR youth bonus", func(t *testing.T) {
		ledger := &mockLedger{}
		publisher := &mockEventPublisher{}
		sessions := session.NewManager()
		uc := newOpenAccountUC(ledger, publisher, sessions)

		resp, err := uc.Execute(context.Background(), dto.OpenAccountRequest{
			HolderFirstName: "Jonas",
			HolderLastName:  "Weber",
			HolderBirthDate: childBirthDate(),
			DisplayName:     "Taschengeld",
			Credential:      "hunter2",
		})
		require.NoError(t, err)

		assert.Equal(t, "50", resp.Balance)
		assert.Equal(t, "EUR", resp.Currency)

		require.Len(t, ledger.postedCash, 1)
		bonus := ledger.postedCash[0].tx
		assert.Equal(t, "Youth Bonus", strings.TrimRight(bonus.Reference(), " "))
		assert.True(t, bonus.Amount().Equal(money.New(decimal.NewFromInt(50), money.EUR)))
	})

	t.Run("youth bonus is applied before the starting deposit", func(t *testing.T) {
		ledger := &mockLedger{}
		publisher := &mockEventPublisher{}
		sessions := session.NewManager()
		uc := newOpenAccountUC(ledger, publisher, sessions)

		resp, err := uc.Execute(context.Background(), dto.OpenAccountRequest{
			HolderFirstName: "Jonas",
			HolderLastName:  "Weber",
			HolderBirthDate: childBirthDate(),
			DisplayName:     "Taschengeld",
			Credential:      "hunter2",
			StartingDeposit: &dto.MoneyRequest{Amount: "25", Currency: "EUR"},
		})
		require.NoError(t, err)

		assert.Equal(t, "75", resp.Balance)
		require.Len(t, ledger.postedCash, 2)
		assert.Equal(t, "Youth Bonus", strings.TrimRight(ledger.postedCash[0].tx.Reference(), " "))
		assert.Equal(t, "Starting credit", strings.TrimRight(ledger.postedCash[1].tx.Reference(), " "))
	})

	t.Run("retries identifier generation on collision", func(t *testing.T) {
		calls := 0
		ledger := &mockLedger{
			existsFunc: func(_ context.Context, _ valueobject.IBAN) (bool, error) {
				calls++
				return calls < 3, nil
			},
		}
		publisher := &mockEventPublisher{}
		sessions := session.NewManager()
		uc := newOpenAccountUC(ledger, publisher, sessions)

		_, err := uc.Execute(context.Background(), dto.OpenAccountRequest{
			HolderFirstName: "Greta",
			HolderLastName:  "Brandt",
			HolderBirthDate: adultBirthDate(),
			DisplayName:     "Girokonto",
			Credential:      "hunter2",
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after exhausting collision retries", func(t *testing.T) {
		ledger := &mockLedger{
			existsFunc: func(_ context.Context, _ valueobject.IBAN) (bool, error) {
				return true, nil
			},
		}
		publisher := &mockEventPublisher{}
		sessions := session.NewManager()
		uc := newOpenAccountUC(ledger, publisher, sessions)

		_, err := uc.Execute(context.Background(), dto.OpenAccountRequest{
			HolderFirstName: "Greta",
			HolderLastName:  "Brandt",
			HolderBirthDate: adultBirthDate(),
			DisplayName:     "Girokonto",
			Credential:      "hunter2",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unique identifier")
	})

	t.Run("rejects an unknown currency", func(t *testing.T) {
		ledger := &mockLedger{}
		uc := newOpenAccountUC(ledger, &mockEventPublisher{}, session.NewManager())

		_, err := uc.Execute(context.Background(), dto.OpenAccountRequest{
			HolderFirstName: "Greta",
			HolderLastName:  "Brandt",
			HolderBirthDate: adultBirthDate(),
			DisplayName:     "Girokonto",
			Credential:      "hunter2",
			Currency:        "DEM",
		})
		assert.ErrorIs(t, err, money.ErrUnknownCurrency)
		assert.Empty(t, ledger.savedAccounts)
	})

	t.Run("rejects missing holder data", func(t *testing.T) {
		uc := newOpenAccountUC(&mockLedger{}, &mockEventPublisher{}, session.NewManager())

		_, err := uc.Execute(context.Background(), dto.OpenAccountRequest{
			HolderLastName:  "Brandt",
			HolderBirthDate: adultBirthDate(),
			DisplayName:     "Girokonto",
			Credential:      "hunter2",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid holder")
	})
}
