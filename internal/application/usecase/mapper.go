package usecase

import (
	"fmt"

	"github.com/openkonto/bank/internal/application/dto"
	"github.com/openkonto/bank/internal/domain/model"
	"github.com/openkonto/bank/pkg/money"
)

// ledgerEventsTopic is the topic all ledger domain events are published to.
const ledgerEventsTopic = "ledger.events"

func parseMoney(req dto.MoneyRequest) (money.Money, error) {
	m, err := money.NewFromString(req.Amount, req.Currency)
	if err != nil {
		return money.Money{}, fmt.Errorf("invalid amount: %w", err)
	}
	return m, nil
}

func accountResponse(account model.Account) dto.AccountResponse {
	return dto.AccountResponse{
		Identifier:        account.IBAN().String(),
		DisplayIdentifier: account.IBAN().Display(),
		DisplayName:       account.DisplayName(),
		HolderName:        account.Holder().FullName(),
		Balance:           account.Balance().Amount().String(),
		Currency:          string(account.Balance().Currency()),
		Version:           account.Version(),
		CreatedAt:         account.CreatedAt(),
	}
}

func transactionResponse(tx model.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		TransactionID: tx.ID().String(),
		Sender:        tx.Sender().String(),
		Receiver:      tx.Receiver().String(),
		Amount:        tx.Amount().Amount().String(),
		Currency:      string(tx.Amount().Currency()),
		Reference:     tx.Reference(),
		CreatedAt:     tx.CreatedAt(),
	}
}
