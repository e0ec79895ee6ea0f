// Package postgres persists the ledger in PostgreSQL using pgx.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openkonto/bank/internal/domain/model"
	"github.com/openkonto/bank/internal/domain/valueobject"
	"github.com/openkonto/bank/pkg/money"
	pkgpostgres "github.com/openkonto/bank/pkg/postgres"
)

// schemaSQL creates the ledger tables. The transaction log carries a
// sequence column so statements come back in insertion order.
const schemaSQL = `
	CREATE TABLE IF NOT EXISTS accounts (
		iban              TEXT PRIMARY KEY,
		holder_first_name TEXT NOT NULL,
		holder_last_name  TEXT NOT NULL,
		holder_birth_date DATE NOT NULL,
		display_name      TEXT NOT NULL,
		balance           NUMERIC NOT NULL,
		currency          TEXT NOT NULL,
		credential_hash   BYTEA NOT NULL,
		version           INT NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL,
		updated_at        TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id         UUID PRIMARY KEY,
		seq        BIGSERIAL,
		amount     NUMERIC NOT NULL,
		currency   TEXT NOT NULL,
		sender     TEXT NOT NULL,
		receiver   TEXT NOT NULL,
		reference  TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS transactions_sender_idx ON transactions (sender);
	CREATE INDEX IF NOT EXISTS transactions_receiver_idx ON transactions (receiver);
`

const upsertAccountSQL = `
	INSERT INTO accounts (
		iban, holder_first_name, holder_last_name, holder_birth_date,
		display_name, balance, currency, credential_hash, version,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (iban) DO UPDATE SET
		display_name = EXCLUDED.display_name,
		balance = EXCLUDED.balance,
		currency = EXCLUDED.currency,
		credential_hash = EXCLUDED.credential_hash,
		version = EXCLUDED.version,
		updated_at = EXCLUDED.updated_at
`

const selectAccountSQL = `
	SELECT iban, holder_first_name, holder_last_name, holder_birth_date,
	       display_name, balance, currency, credential_hash, version,
	       created_at, updated_at
	FROM accounts
	WHERE iban = $1
`

// insertTransactionSQL ignores duplicates so re-appending a recorded id is a
// no-op.
const insertTransactionSQL = `
	INSERT INTO transactions (id, amount, currency, sender, receiver, reference, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO NOTHING
`

const selectTransactionsSQL = `
	SELECT id, amount, currency, sender, receiver, reference, created_at
	FROM transactions
	ORDER BY seq
`

const selectTransactionsByIBANSQL = `
	SELECT id, amount, currency, sender, receiver, reference, created_at
	FROM transactions
	WHERE sender = $1 OR receiver = $1
	ORDER BY seq
`

// Store implements port.Ledger backed by PostgreSQL. PostTransfer and
// PostCash commit inside a single database transaction.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL-backed Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the ledger tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Save inserts or replaces the account under its identifier.
func (s *Store) Save(ctx context.Context, account model.Account) error {
	return upsertAccount(ctx, s.pool, account)
}

// FindByIBAN returns the account stored under the identifier.
func (s *Store) FindByIBAN(ctx context.Context, iban valueobject.IBAN) (model.Account, error) {
	row := s.pool.QueryRow(ctx, selectAccountSQL, iban.String())
	account, err := scanAccount(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to scan account: %w", err)
	}
	return account, nil
}

// Delete removes the account. The transaction log keeps its history.
func (s *Store) Delete(ctx context.Context, iban valueobject.IBAN) error {
	result, err := s.pool.Exec(ctx, `DELETE FROM accounts WHERE iban = $1`, iban.String())
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// Exists reports whether an account is stored under the identifier.
func (s *Store) Exists(ctx context.Context, iban valueobject.IBAN) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE iban = $1)`, iban.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists, nil
}

// Append adds the transaction to the log.
func (s *Store) Append(ctx context.Context, tx model.Transaction) error {
	return insertTransaction(ctx, s.pool, tx)
}

// List returns all transactions in insertion order.
func (s *Store) List(ctx context.Context) ([]model.Transaction, error) {
	rows, err := s.pool.Query(ctx, selectTransactionsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// ListByIBAN returns the transactions involving the identifier.
func (s *Store) ListByIBAN(ctx context.Context, iban valueobject.IBAN) ([]model.Transaction, error) {
	rows, err := s.pool.Query(ctx, selectTransactionsByIBANSQL, iban.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// PostTransfer stores both updated accounts and the transaction record in a
// single database transaction.
func (s *Store) PostTransfer(ctx context.Context, sender, receiver model.Account, tx model.Transaction) error {
	return pkgpostgres.WithTransaction(ctx, s.pool, func(dbtx pgx.Tx) error {
		if err := upsertAccount(ctx, dbtx, sender); err != nil {
			return err
		}
		if err := upsertAccount(ctx, dbtx, receiver); err != nil {
			return err
		}
		return insertTransaction(ctx, dbtx, tx)
	})
}

// PostCash stores the credited account and the transaction record in a
// single database transaction.
func (s *Store) PostCash(ctx context.Context, receiver model.Account, tx model.Transaction) error {
	return pkgpostgres.WithTransaction(ctx, s.pool, func(dbtx pgx.Tx) error {
		if err := upsertAccount(ctx, dbtx, receiver); err != nil {
			return err
		}
		return insertTransaction(ctx, dbtx, tx)
	})
}

func upsertAccount(ctx context.Context, q pkgpostgres.Querier, account model.Account) error {
	_, err := q.Exec(ctx, upsertAccountSQL,
		account.IBAN().String(),
		account.Holder().FirstName(),
		account.Holder().LastName(),
		account.Holder().BirthDate(),
		account.DisplayName(),
		account.Balance().Amount(),
		string(account.Balance().Currency()),
		account.CredentialHash(),
		account.Version(),
		account.CreatedAt(),
		account.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}
	return nil
}

func insertTransaction(ctx context.Context, q pkgpostgres.Querier, tx model.Transaction) error {
	_, err := q.Exec(ctx, insertTransactionSQL,
		tx.ID(),
		tx.Amount().Amount(),
		string(tx.Amount().Currency()),
		tx.Sender().String(),
		tx.Receiver().String(),
		tx.Reference(),
		tx.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func scanAccount(row pgx.Row) (model.Account, error) {
	var (
		ibanStr        string
		firstName      string
		lastName       string
		birthDate      time.Time
		displayName    string
		balance        decimal.Decimal
		currency       string
		credentialHash []byte
		version        int
		createdAt      time.Time
		updatedAt      time.Time
	)

	err := row.Scan(
		&ibanStr, &firstName, &lastName, &birthDate,
		&displayName, &balance, &currency, &credentialHash, &version,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return model.Account{}, err
	}

	return reconstructAccount(
		ibanStr, firstName, lastName, birthDate,
		displayName, balance, currency, credentialHash, version,
		createdAt, updatedAt,
	)
}

func scanTransactions(rows pgx.Rows) ([]model.Transaction, error) {
	var out []model.Transaction
	for rows.Next() {
		var (
			id        uuid.UUID
			amount    decimal.Decimal
			currency  string
			sender    string
			receiver  string
			reference string
			createdAt time.Time
		)
		if err := rows.Scan(&id, &amount, &currency, &sender, &receiver, &reference, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx, err := reconstructTransaction(id, amount, currency, sender, receiver, reference, createdAt)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return out, nil
}

// reconstructAccount maps raw database values back into the Account
// aggregate.
func reconstructAccount(
	ibanStr, firstName, lastName string, birthDate time.Time,
	displayName string, balance decimal.Decimal, currency string,
	credentialHash []byte, version int,
	createdAt, updatedAt time.Time,
) (model.Account, error) {
	iban, err := valueobject.Parse(ibanStr)
	if err != nil {
		return model.Account{}, fmt.Errorf("invalid stored identifier %q: %w", ibanStr, err)
	}

	code, err := money.ParseCode(currency)
	if err != nil {
		return model.Account{}, fmt.Errorf("invalid stored currency %q: %w", currency, err)
	}

	holder, err := model.NewPerson(firstName, lastName, birthDate)
	if err != nil {
		return model.Account{}, fmt.Errorf("invalid stored holder: %w", err)
	}

	return model.ReconstructAccount(
		holder, displayName,
		money.New(balance, code),
		iban, credentialHash, version,
		createdAt, updatedAt,
	), nil
}

// reconstructTransaction maps raw database values back into a Transaction.
func reconstructTransaction(
	id uuid.UUID, amount decimal.Decimal, currency, sender, receiver, reference string,
	createdAt time.Time,
) (model.Transaction, error) {
	code, err := money.ParseCode(currency)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid stored currency %q: %w", currency, err)
	}

	senderIBAN, err := valueobject.Parse(sender)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid stored sender %q: %w", sender, err)
	}
	receiverIBAN, err := valueobject.Parse(receiver)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("invalid stored receiver %q: %w", receiver, err)
	}

	return model.ReconstructTransaction(
		id, money.New(amount, code), senderIBAN, receiverIBAN, reference, createdAt,
	), nil
}
