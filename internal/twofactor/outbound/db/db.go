// Package db stores enrolled accounts in PostgreSQL.
package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/twofactor/internal/pkg/goerror"
	"github.com/shandysiswandi/twofactor/internal/pkg/instrument"
	"github.com/shandysiswandi/twofactor/internal/twofactor/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type DB struct {
	conn DBTX
	ins  instrument.Instrumentation
}

func NewDB(conn DBTX, ins instrument.Instrumentation) *DB {
	return &DB{conn: conn, ins: ins}
}

// EnsureSchema creates the accounts table when it does not exist.
func (s *DB) EnsureSchema(ctx context.Context) (err error) {
	ctx, span := s.startSpan(ctx, "EnsureSchema")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, schemaTwofactorAccounts)
	return err
}

// - 23505 unique_violation -> goerror.ErrConflict
// - no rows -> goerror.ErrNotFound
func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("twofactor.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *DB) GetAccount(ctx context.Context, accountID string) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccount")
	defer func() { s.endSpan(span, err) }()

	row, err := getAccount(ctx, s.conn, accountID)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &entity.Account{
		ID:         row.ID,
		AccountID:  row.AccountID,
		Secret:     row.Secret,
		KeyVersion: row.KeyVersion,
		CreatedAt:  row.CreatedAt.Time,
	}, nil
}

// CreateAccount inserts in, returning goerror.ErrConflict when the account id
// is already enrolled. Concurrent inserts for one id resolve to one winner.
func (s *DB) CreateAccount(ctx context.Context, in entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAccount")
	defer func() { s.endSpan(span, err) }()

	affected, err := createAccount(ctx, s.conn, createTwofactorAccountParams{
		ID:         in.ID,
		AccountID:  in.AccountID,
		Secret:     in.Secret,
		KeyVersion: in.KeyVersion,
		CreatedAt:  pgtype.Timestamptz{Valid: true, Time: in.CreatedAt},
	})
	if err != nil {
		return s.mapError(err)
	}
	if affected == 0 {
		return goerror.ErrConflict
	}

	return nil
}

func (s *DB) Ping(ctx context.Context) error {
	if p, ok := s.conn.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
