package otp

import (
	"crypto/subtle"
	"time"

	"github.com/pquerna/otp"
)

// DefaultPeriod is the RFC 6238 time step in seconds.
const DefaultPeriod uint = 30

// OTP defines the contract for TOTP operations.
type OTP interface {
	// Generate creates a secret and provisioning URI for an account name.
	Generate(accountName string) (secret string, uri string, err error)
	// Validate checks whether a code is valid at the given time.
	Validate(code, secret string, at time.Time) (bool, error)
	// GenerateCode creates a TOTP code for the given secret and time.
	GenerateCode(secret string, at time.Time) (string, error)
}

// normalize maps a zero period to DefaultPeriod and any digit count other
// than 6 or 8 to 6.
func normalize(period uint, digits otp.Digits) (uint, otp.Digits) {
	if period == 0 {
		period = DefaultPeriod
	}
	if digits != otp.DigitsSix && digits != otp.DigitsEight {
		digits = otp.DigitsSix
	}
	return period, digits
}

// Code derives the TOTP code for secret at the given time.
//
// period and digits are normalized as in NewTOTP.
func Code(secret string, at time.Time, period uint, digits otp.Digits) (string, error) {
	key, err := DecodeSecret(secret)
	if err != nil {
		return "", err
	}
	period, digits = normalize(period, digits)

	return codeAt(key, at.Unix(), period, digits), nil
}

// Verify reports whether code matches any step in [at-skew*period, at+skew*period].
//
// A code with the wrong length is rejected without error. Every candidate is
// compared in constant time, even after a match. The only error is
// ErrInvalidSecret, which means verification was impossible rather than the
// code being wrong. period and digits are normalized as in NewTOTP.
func Verify(secret, code string, at time.Time, period, skew uint, digits otp.Digits) (bool, error) {
	key, err := DecodeSecret(secret)
	if err != nil {
		return false, err
	}
	period, digits = normalize(period, digits)

	if len(code) != digits.Length() {
		return false, nil
	}

	ts := at.Unix()
	match := 0
	for i := -int64(skew); i <= int64(skew); i++ {
		t := ts + i*int64(period)
		if t < 0 {
			continue
		}
		match |= subtle.ConstantTimeCompare([]byte(code), []byte(codeAt(key, t, period, digits)))
	}

	return match == 1, nil
}

func codeAt(key []byte, unix int64, period uint, digits otp.Digits) string {
	if unix < 0 {
		unix = 0
	}
	return hotp(key, uint64(unix)/uint64(period), digits)
}

// TOTP implements OTP using the Time-based One-Time Password algorithm.
type TOTP struct {
	issuer     string
	period     uint
	skew       uint
	digits     otp.Digits
	secretSize int
}

// NewTOTP constructs a TOTP instance with sensible defaults.
//
// If digits is not 6 or 8, it falls back to 6 digits. If period is 0, it uses
// the common 30-second period. skew is the number of steps tolerated on each
// side of the current one; 0 accepts only the current step.
func NewTOTP(issuer string, period, skew uint, digits otp.Digits) *TOTP {
	period, digits = normalize(period, digits)

	return &TOTP{
		issuer:     issuer,
		period:     period,
		skew:       skew,
		digits:     digits,
		secretSize: DefaultSecretSize,
	}
}

// Generate creates a secret and provisioning URI for an account name.
func (o *TOTP) Generate(accountName string) (secret string, uri string, err error) {
	secret = RandomSecret(o.secretSize)

	uri, err = ProvisioningURI(o.issuer, accountName, secret, o.digits, o.period)
	if err != nil {
		return "", "", err
	}

	return secret, uri, nil
}

// Validate checks whether a code is valid at the given time.
func (o *TOTP) Validate(code, secret string, at time.Time) (bool, error) {
	return Verify(secret, code, at, o.period, o.skew, o.digits)
}

// GenerateCode creates a TOTP code for the given secret and time.
func (o *TOTP) GenerateCode(secret string, at time.Time) (string, error) {
	return Code(secret, at, o.period, o.digits)
}
