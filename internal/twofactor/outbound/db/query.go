package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schemaTwofactorAccounts = `
CREATE TABLE IF NOT EXISTS twofactor_accounts (
    id          BIGINT PRIMARY KEY,
    account_id  VARCHAR(255) NOT NULL UNIQUE,
    secret      BYTEA NOT NULL,
    key_version SMALLINT NOT NULL DEFAULT 1,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const getTwofactorAccount = `
SELECT id, account_id, secret, key_version, created_at
FROM twofactor_accounts
WHERE account_id = $1`

type twofactorAccountRow struct {
	ID         int64
	AccountID  string
	Secret     []byte
	KeyVersion int16
	CreatedAt  pgtype.Timestamptz
}

func getAccount(ctx context.Context, q DBTX, accountID string) (twofactorAccountRow, error) {
	var row twofactorAccountRow
	err := q.QueryRow(ctx, getTwofactorAccount, accountID).Scan(
		&row.ID,
		&row.AccountID,
		&row.Secret,
		&row.KeyVersion,
		&row.CreatedAt,
	)
	return row, err
}

const createTwofactorAccount = `
INSERT INTO twofactor_accounts (id, account_id, secret, key_version, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (account_id) DO NOTHING`

type createTwofactorAccountParams struct {
	ID         int64
	AccountID  string
	Secret     []byte
	KeyVersion int16
	CreatedAt  pgtype.Timestamptz
}

func createAccount(ctx context.Context, q DBTX, arg createTwofactorAccountParams) (int64, error) {
	tag, err := q.Exec(ctx, createTwofactorAccount,
		arg.ID,
		arg.AccountID,
		arg.Secret,
		arg.KeyVersion,
		arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
