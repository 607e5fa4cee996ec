// Package memory keeps enrolled accounts in process memory.
//
// Records are lost on restart; use it for local runs and tests.
package memory

import (
	"context"
	"errors"

	"github.com/patrickmn/go-cache"
	"github.com/shandysiswandi/twofactor/internal/pkg/goerror"
	"github.com/shandysiswandi/twofactor/internal/twofactor/entity"
)

// Memory is an in-process account store backed by go-cache.
type Memory struct {
	items *cache.Cache
}

// NewMemory returns an empty store whose records never expire.
func NewMemory() *Memory {
	return &Memory{items: cache.New(cache.NoExpiration, 0)}
}

// GetAccount returns the record for accountID or goerror.ErrNotFound.
func (m *Memory) GetAccount(_ context.Context, accountID string) (*entity.Account, error) {
	v, ok := m.items.Get(accountID)
	if !ok {
		return nil, goerror.ErrNotFound
	}

	acc, ok := v.(entity.Account)
	if !ok {
		return nil, errors.New("memory: unexpected record type")
	}

	acc.Secret = append([]byte(nil), acc.Secret...)
	return &acc, nil
}

// CreateAccount stores in unless a record already exists, in which case it
// returns goerror.ErrConflict. The check and insert are one atomic step.
func (m *Memory) CreateAccount(_ context.Context, in entity.Account) error {
	in.Secret = append([]byte(nil), in.Secret...)
	if err := m.items.Add(in.AccountID, in, cache.NoExpiration); err != nil {
		return goerror.ErrConflict
	}
	return nil
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error {
	return nil
}
