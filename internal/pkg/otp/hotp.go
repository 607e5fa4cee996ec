package otp

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // RFC 6238 default algorithm
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/pquerna/otp"
)

// ErrInvalidSecret indicates the shared secret is not valid base32.
var ErrInvalidSecret = errors.New("otp: invalid secret")

var b32NoPadding = base32.StdEncoding.WithPadding(base32.NoPadding)

// DecodeSecret decodes a base32 shared secret.
//
// Lowercase letters, surrounding whitespace and trailing '=' padding are
// accepted. An empty secret is rejected.
func DecodeSecret(secret string) ([]byte, error) {
	s := strings.TrimRight(strings.ToUpper(strings.TrimSpace(secret)), "=")
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSecret)
	}

	key, err := b32NoPadding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSecret, err)
	}

	return key, nil
}

// hotp derives the RFC 4226 code for key and counter. digits must be 6 or 8.
func hotp(key []byte, counter uint64, digits otp.Digits) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0F
	bin := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7FFFFFFF

	mod := uint32(1_000_000)
	if digits == otp.DigitsEight {
		mod = 100_000_000
	}
	return digits.Format(int32(bin % mod)) //nolint:gosec // bin%mod < 10^8
}
