package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkonto/bank/internal/application/dto"
	"github.com/openkonto/bank/internal/application/session"
	"github.com/openkonto/bank/internal/application/usecase"
	"github.com/openkonto/bank/internal/domain/model"
	"github.com/openkonto/bank/internal/domain/valueobject"
)

func TestLoginUseCase_Execute(t *testing.T) {
	t.Run("binds the session on a correct credential", func(t *testing.T) {
		ledger := ledgerWith(accountAt(t, ibanA, 100))
		sessions := session.NewManager()
		uc := usecase.NewLoginUseCase(ledger, sessions, testLogger())

		resp, err := uc.Execute(context.Background(), dto.LoginRequest{
			Identifier: ibanA.String(),
			Credential: "hunter2",
		})
		require.NoError(t, err)

		assert.Equal(t, ibanA.String(), resp.Identifier)
		current, ok := sessions.Current()
		require.True(t, ok)
		assert.True(t, current.Equal(ibanA))
	})

	t.Run("accepts an identifier with grouping whitespace", func(t *testing.T) {
		ledger := ledgerWith(accountAt(t, ibanA, 0))
		sessions := session.NewManager()
		uc := usecase.NewLoginUseCase(ledger, sessions, testLogger())

		_, err := uc.Execute(context.Background(), dto.LoginRequest{
			Identifier: ibanA.Display(),
			Credential: "hunter2",
		})
		require.NoError(t, err)
	})

	t.Run("rejects a wrong credential", func(t *testing.T) {
		ledger := ledgerWith(accountAt(t, ibanA, 0))
		sessions := session.NewManager()
		uc := usecase.NewLoginUseCase(ledger, sessions, testLogger())

		_, err := uc.Execute(context.Background(), dto.LoginRequest{
			Identifier: ibanA.String(),
			Credential: "wrong",
		})
		assert.ErrorIs(t, err, model.ErrInvalidCredential)

		_, ok := sessions.Current()
		assert.False(t, ok)
	})

	t.Run("rejects an identifier with a bad checksum", func(t *testing.T) {
		uc := usecase.NewLoginUseCase(ledgerWith(), session.NewManager(), testLogger())

		_, err := uc.Execute(context.Background(), dto.LoginRequest{
			Identifier: "DE00370400440532013000",
			Credential: "hunter2",
		})
		assert.ErrorIs(t, err, valueobject.ErrInvalidChecksum)
	})

	t.Run("unknown identifier maps to not found", func(t *testing.T) {
		uc := usecase.NewLoginUseCase(ledgerWith(), session.NewManager(), testLogger())

		_, err := uc.Execute(context.Background(), dto.LoginRequest{
			Identifier: ibanA.String(),
			Credential: "hunter2",
		})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("a second login replaces the bound account", func(t *testing.T) {
		ledger := ledgerWith(accountAt(t, ibanA, 0), accountAt(t, ibanB, 0))
		sessions := session.NewManager()
		uc := usecase.NewLoginUseCase(ledger, sessions, testLogger())

		_, err := uc.Execute(context.Background(), dto.LoginRequest{Identifier: ibanA.String(), Credential: "hunter2"})
		require.NoError(t, err)
		_, err = uc.Execute(context.Background(), dto.LoginRequest{Identifier: ibanB.String(), Credential: "hunter2"})
		require.NoError(t, err)

		current, ok := sessions.Current()
		require.True(t, ok)
		assert.True(t, current.Equal(ibanB))
	})
}
