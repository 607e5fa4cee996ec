package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/twofactor/internal/pkg/goerror"
	"github.com/shandysiswandi/twofactor/internal/pkg/mfa"
	"github.com/shandysiswandi/twofactor/internal/twofactor/entity"
)

type EnrollInput struct {
	AccountID string `validate:"required,max=255,printable"`
}

type EnrollOutput struct {
	URI     string
	QRImage []byte
}

// Enroll issues a new shared secret for an account that has none.
//
// The secret is generated, rendered and encrypted before the store is
// touched, so a failed render never leaves a record without a QR code.
// Persisting is a single create-if-absent; losing a race to a concurrent
// enrollment reports a conflict.
func (s *Usecase) Enroll(ctx context.Context, in EnrollInput) (*EnrollOutput, error) {
	ctx, span := s.startSpan(ctx, "Enroll")
	defer span.End()

	in.AccountID = strings.TrimSpace(in.AccountID)
	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	secret, uri, err := s.totp.Generate(in.AccountID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate totp secret", "account_id", in.AccountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	png, err := s.qr.Render(uri)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render provisioning qr code", "account_id", in.AccountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	ciphertext, err := s.encryptor.Encrypt([]byte(secret), mfa.Scope{
		AccountID: in.AccountID,
		Purpose:   mfa.PurposeOTPSeed,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encrypt totp secret", "account_id", in.AccountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	err = s.store.CreateAccount(ctx, entity.Account{
		ID:         s.uid.Generate(),
		AccountID:  in.AccountID,
		Secret:     ciphertext,
		KeyVersion: keyVersion,
		CreatedAt:  s.clock.Now(),
	})
	if errors.Is(err, goerror.ErrConflict) {
		slog.WarnContext(ctx, "account already enrolled", "account_id", in.AccountID)
		return nil, goerror.NewBusiness("account already enrolled", goerror.CodeConflict)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to store enrolled account", "account_id", in.AccountID, "error", err)
		return nil, goerror.NewServer(err)
	}

	s.count(ctx, s.metrics.enrollments)
	slog.InfoContext(ctx, "account enrolled", "account_id", in.AccountID)

	return &EnrollOutput{URI: uri, QRImage: png}, nil
}
