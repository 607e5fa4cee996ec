// Package cache stores enrolled accounts in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/twofactor/internal/pkg/goerror"
	"github.com/shandysiswandi/twofactor/internal/pkg/instrument"
	"github.com/shandysiswandi/twofactor/internal/twofactor/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyPrefix = "twofactor:account:"

type record struct {
	ID         int64     `json:"id,string"`
	AccountID  string    `json:"account_id"`
	Secret     []byte    `json:"secret"`
	KeyVersion int16     `json:"key_version"`
	CreatedAt  time.Time `json:"created_at"`
}

// Cache is a Redis-backed account store. Each account is one JSON value
// under twofactor:account:{account_id}, written once with SETNX.
type Cache struct {
	client redis.UniversalClient
	ins    instrument.Instrumentation
}

func NewCache(client redis.UniversalClient, ins instrument.Instrumentation) *Cache {
	return &Cache{client: client, ins: ins}
}

func (c *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("twofactor.outbound.cache").Start(ctx, name)
}

func (c *Cache) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (c *Cache) GetAccount(ctx context.Context, accountID string) (_ *entity.Account, err error) {
	ctx, span := c.startSpan(ctx, "GetAccount")
	defer func() { c.endSpan(span, err) }()

	raw, err := c.client.Get(ctx, keyPrefix+accountID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("cache: decode account record: %w", err)
	}

	return &entity.Account{
		ID:         rec.ID,
		AccountID:  rec.AccountID,
		Secret:     rec.Secret,
		KeyVersion: rec.KeyVersion,
		CreatedAt:  rec.CreatedAt,
	}, nil
}

func (c *Cache) CreateAccount(ctx context.Context, in entity.Account) (err error) {
	ctx, span := c.startSpan(ctx, "CreateAccount")
	defer func() { c.endSpan(span, err) }()

	raw, err := json.Marshal(record{
		ID:         in.ID,
		AccountID:  in.AccountID,
		Secret:     in.Secret,
		KeyVersion: in.KeyVersion,
		CreatedAt:  in.CreatedAt.UTC(),
	})
	if err != nil {
		return err
	}

	created, err := c.client.SetNX(ctx, keyPrefix+in.AccountID, raw, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		return goerror.ErrConflict
	}

	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
