package usecase_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/openkonto/bank/internal/domain/event"
	"github.com/openkonto/bank/internal/domain/model"
	"github.com/openkonto/bank/internal/domain/valueobject"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type postedCash struct {
	account model.Account
	tx      model.Transaction
}

type postedTransfer struct {
	sender   model.Account
	receiver model.Account
	tx       model.Transaction
}

// mockLedger implements port.Ledger. Behavior can be overridden per test via
// the func fields; calls that mutate state are recorded.
type mockLedger struct {
	saveFunc         func(ctx context.Context, account model.Account) error
	findByIBANFunc   func(ctx context.Context, iban valueobject.IBAN) (model.Account, error)
	deleteFunc       func(ctx context.Context, iban valueobject.IBAN) error
	existsFunc       func(ctx context.Context, iban valueobject.IBAN) (bool, error)
	appendFunc       func(ctx context.Context, tx model.Transaction) error
	listFunc         func(ctx context.Context) ([]model.Transaction, error)
	listByIBANFunc   func(ctx context.Context, iban valueobject.IBAN) ([]model.Transaction, error)
	postTransferFunc func(ctx context.Context, sender, receiver model.Account, tx model.Transaction) error
	postCashFunc     func(ctx context.Context, receiver model.Account, tx model.Transaction) error

	savedAccounts   []model.Account
	deletedIBANs    []valueobject.IBAN
	postedCash      []postedCash
	postedTransfers []postedTransfer
}

func (m *mockLedger) Save(ctx context.Context, account model.Account) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, account); err != nil {
			return err
		}
	}
	m.savedAccounts = append(m.savedAccounts, account)
	return nil
}

func (m *mockLedger) FindByIBAN(ctx context.Context, iban valueobject.IBAN) (model.Account, error) {
	if m.findByIBANFunc != nil {
		return m.findByIBANFunc(ctx, iban)
	}
	return model.Account{}, model.ErrNotFound
}

func (m *mockLedger) Delete(ctx context.Context, iban valueobject.IBAN) error {
	if m.deleteFunc != nil {
		if err := m.deleteFunc(ctx, iban); err != nil {
			return err
		}
	}
	m.deletedIBANs = append(m.deletedIBANs, iban)
	return nil
}

func (m *mockLedger) Exists(ctx context.Context, iban valueobject.IBAN) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, iban)
	}
	return false, nil
}

func (m *mockLedger) Append(ctx context.Context, tx model.Transaction) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, tx)
	}
	return nil
}

func (m *mockLedger) List(ctx context.Context) ([]model.Transaction, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockLedger) ListByIBAN(ctx context.Context, iban valueobject.IBAN) ([]model.Transaction, error) {
	if m.listByIBANFunc != nil {
		return m.listByIBANFunc(ctx, iban)
	}
	return nil, nil
}

func (m *mockLedger) PostTransfer(ctx context.Context, sender, receiver model.Account, tx model.Transaction) error {
	if m.postTransferFunc != nil {
		if err := m.postTransferFunc(ctx, sender, receiver, tx); err != nil {
			return err
		}
	}
	m.postedTransfers = append(m.postedTransfers, postedTransfer{sender: sender, receiver: receiver, tx: tx})
	return nil
}

func (m *mockLedger) PostCash(ctx context.Context, receiver model.Account, tx model.Transaction) error {
	if m.postCashFunc != nil {
		if err := m.postCashFunc(ctx, receiver, tx); err != nil {
			return err
		}
	}
	m.postedCash = append(m.postedCash, postedCash{account: receiver, tx: tx})
	return nil
}

// mockEventPublisher implements port.EventPublisher and records what it is
// given.
type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, topic string, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, topic string, events ...event.DomainEvent) error {
	if m.publishFunc != nil {
		if err := m.publishFunc(ctx, topic, events...); err != nil {
			return err
		}
	}
	m.publishedEvents = append(m.publishedEvents, events...)
	return nil
}
