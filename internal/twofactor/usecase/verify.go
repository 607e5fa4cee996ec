package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/shandysiswandi/twofactor/internal/pkg/goerror"
	"github.com/shandysiswandi/twofactor/internal/pkg/mfa"
	"github.com/shandysiswandi/twofactor/internal/twofactor/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type VerifyInput struct {
	AccountID string `validate:"required"`
	Code      string `validate:"required"`
}

type VerifyOutput struct {
	Valid bool
}

// Verify checks code against the account's secret at the current time.
//
// The code is compared as submitted, so surrounding whitespace makes it the
// wrong length. A wrong code is a normal false result. A stored secret that no longer
// decrypts or decodes is an integrity fault and surfaces as a server error.
func (s *Usecase) Verify(ctx context.Context, in VerifyInput) (*VerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "Verify")
	defer span.End()

	in.AccountID = strings.TrimSpace(in.AccountID)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	acc, err := s.store.GetAccount(ctx, in.AccountID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "account not enrolled", "account_id", in.AccountID)
		return nil, goerror.NewBusiness("account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get enrolled account", "account_id", in.AccountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	secret, err := s.encryptor.Decrypt(acc.Secret, mfa.Scope{
		AccountID: acc.AccountID,
		Purpose:   mfa.PurposeOTPSeed,
	})
	if err != nil {
		return nil, s.integrityFault(ctx, acc, "decrypt", err)
	}

	valid, err := s.totp.Validate(in.Code, string(secret), s.clock.Now())
	if err != nil {
		return nil, s.integrityFault(ctx, acc, "decode", err)
	}

	s.count(ctx, s.metrics.verifications, metric.WithAttributes(attribute.String("result", strconv.FormatBool(valid))))
	if !valid {
		slog.WarnContext(ctx, "invalid totp code", "account_id", acc.AccountID)
	}

	return &VerifyOutput{Valid: valid}, nil
}

func (s *Usecase) integrityFault(ctx context.Context, acc *entity.Account, stage string, err error) error {
	slog.ErrorContext(ctx, "stored totp secret is unusable",
		"account_id", acc.AccountID,
		"key_version", acc.KeyVersion,
		"stage", stage,
		"error", err,
	)
	s.count(ctx, s.metrics.integrityFaults, metric.WithAttributes(attribute.String("stage", stage)))
	return goerror.NewServer(err)
}
