package inbound

import (
	"encoding/base64"

	"github.com/shandysiswandi/twofactor/internal/pkg/router"
	"github.com/shandysiswandi/twofactor/internal/twofactor/usecase"
)

type HTTPEndpoint struct {
	uc uc
}

// Enroll issues a TOTP secret for an account.
// @Summary Enroll account
// @Description Generates a shared secret and returns its otpauth URI and QR code (base64 PNG).
// @Tags TwoFactor
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body EnrollRequest true "Enrollment payload"
// @Success 200 {object} router.successResponse{data=EnrollResponse} "Enrollment result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 409 {object} router.errorResponse "Account already enrolled"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/twofactor/enroll [post]
func (h *HTTPEndpoint) Enroll(r *router.Request) (any, error) {
	var req EnrollRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Enroll(r.Context(), usecase.EnrollInput{
		AccountID: req.AccountID,
	})
	if err != nil {
		return nil, err
	}

	return EnrollResponse{
		ProvisioningURI: resp.URI,
		QRImageBase64:   base64.StdEncoding.EncodeToString(resp.QRImage),
	}, nil
}

// Verify checks a TOTP code for an enrolled account.
// @Summary Verify code
// @Description Verifies a code against the account secret, tolerating the configured clock skew.
// @Tags TwoFactor
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body VerifyRequest true "Verification payload"
// @Success 200 {object} router.successResponse{data=VerifyResponse} "Verification result"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 404 {object} router.errorResponse "Account not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/twofactor/verify [post]
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
		AccountID: req.AccountID,
		Code:      req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyResponse{Valid: resp.Valid}, nil
}
