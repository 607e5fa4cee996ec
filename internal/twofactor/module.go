package twofactor

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/twofactor/internal/pkg/clock"
	"github.com/shandysiswandi/twofactor/internal/pkg/config"
	"github.com/shandysiswandi/twofactor/internal/pkg/instrument"
	"github.com/shandysiswandi/twofactor/internal/pkg/mfa"
	"github.com/shandysiswandi/twofactor/internal/pkg/otp"
	"github.com/shandysiswandi/twofactor/internal/pkg/qrcode"
	"github.com/shandysiswandi/twofactor/internal/pkg/router"
	"github.com/shandysiswandi/twofactor/internal/pkg/uid"
	"github.com/shandysiswandi/twofactor/internal/pkg/validator"
	"github.com/shandysiswandi/twofactor/internal/twofactor/entity"
	"github.com/shandysiswandi/twofactor/internal/twofactor/inbound"
	"github.com/shandysiswandi/twofactor/internal/twofactor/outbound/cache"
	"github.com/shandysiswandi/twofactor/internal/twofactor/outbound/db"
	"github.com/shandysiswandi/twofactor/internal/twofactor/outbound/memory"
	"github.com/shandysiswandi/twofactor/internal/twofactor/usecase"
)

// Store drivers accepted by modules.twofactor.store.driver.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

var (
	ErrUnknownDriver = errors.New("twofactor: unknown store driver")
	ErrMissingConn   = errors.New("twofactor: store driver has no connection")
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Encryptor  mfa.Encryptor              `validate:"required"`
	Totp       otp.OTP                    `validate:"required"`
	QR         qrcode.Renderer            `validate:"required"`

	// DBConn and CacheConn are only required by their matching driver.
	DBConn    *pgxpool.Pool
	CacheConn *redis.Client
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	store, err := newStore(dep)
	if err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		Store:      store,
		Validator:  dep.Validator,
		Encryptor:  dep.Encryptor,
		Totp:       dep.Totp,
		QR:         dep.QR,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	dep.Router.AddHealthCheck("twofactor_store", store.Ping)

	return nil
}

type accountStore interface {
	GetAccount(ctx context.Context, accountID string) (*entity.Account, error)
	CreateAccount(ctx context.Context, in entity.Account) error
	Ping(ctx context.Context) error
}

func newStore(dep Dependency) (accountStore, error) {
	switch driver := dep.Config.GetString("modules.twofactor.store.driver"); driver {
	case "", DriverMemory:
		return memory.NewMemory(), nil

	case DriverRedis:
		if dep.CacheConn == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingConn, driver)
		}
		return cache.NewCache(dep.CacheConn, dep.Instrument), nil

	case DriverPostgres:
		if dep.DBConn == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingConn, driver)
		}
		store := db.NewDB(dep.DBConn, dep.Instrument)
		if dep.Config.GetBool("modules.twofactor.store.postgres.auto_migrate") {
			if err := store.EnsureSchema(dep.Ctx); err != nil {
				return nil, fmt.Errorf("twofactor: ensure schema: %w", err)
			}
		}
		return store, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
