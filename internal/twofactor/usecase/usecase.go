package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/twofactor/internal/pkg/clock"
	"github.com/shandysiswandi/twofactor/internal/pkg/instrument"
	"github.com/shandysiswandi/twofactor/internal/pkg/mfa"
	"github.com/shandysiswandi/twofactor/internal/pkg/otp"
	"github.com/shandysiswandi/twofactor/internal/pkg/qrcode"
	"github.com/shandysiswandi/twofactor/internal/pkg/uid"
	"github.com/shandysiswandi/twofactor/internal/pkg/validator"
	"github.com/shandysiswandi/twofactor/internal/twofactor/entity"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// keyVersion tags ciphertexts produced with the current mfa.secret.
const keyVersion int16 = 1

type repoStore interface {
	GetAccount(ctx context.Context, accountID string) (*entity.Account, error)
	CreateAccount(ctx context.Context, in entity.Account) error
}

type metrics struct {
	enrollments     metric.Int64Counter
	verifications   metric.Int64Counter
	integrityFaults metric.Int64Counter
}

type Usecase struct {
	store     repoStore
	validator validator.Validator
	encryptor mfa.Encryptor
	totp      otp.OTP
	qr        qrcode.Renderer
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
	metrics   metrics
}

type Dependency struct {
	Store      repoStore
	Validator  validator.Validator
	Encryptor  mfa.Encryptor
	Totp       otp.OTP
	QR         qrcode.Renderer
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	s := &Usecase{
		store:     dep.Store,
		validator: dep.Validator,
		encryptor: dep.Encryptor,
		totp:      dep.Totp,
		qr:        dep.QR,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
	s.metrics = newMetrics(s.ins.Meter("twofactor.usecase"))
	return s
}

func newMetrics(meter metric.Meter) metrics {
	var m metrics
	var err error

	m.enrollments, err = meter.Int64Counter("twofactor.enrollments",
		metric.WithDescription("Number of accounts enrolled"))
	if err != nil {
		slog.Error("failed to create enrollments counter", "error", err)
	}

	m.verifications, err = meter.Int64Counter("twofactor.verifications",
		metric.WithDescription("Number of code verifications by result"))
	if err != nil {
		slog.Error("failed to create verifications counter", "error", err)
	}

	m.integrityFaults, err = meter.Int64Counter("twofactor.secret.integrity_faults",
		metric.WithDescription("Stored secrets that could not be decrypted or decoded"))
	if err != nil {
		slog.Error("failed to create integrity faults counter", "error", err)
	}

	return m
}

func (s *Usecase) count(ctx context.Context, c metric.Int64Counter, opts ...metric.AddOption) {
	if c != nil {
		c.Add(ctx, 1, opts...)
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("twofactor.usecase").Start(ctx, name)
}
