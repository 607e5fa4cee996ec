package otp

import "crypto/rand"

// DefaultSecretSize is the secret length in bytes recommended by RFC 4226.
// It encodes to 32 base32 characters.
const DefaultSecretSize = 20

// RandomSecret returns size random bytes encoded as unpadded base32.
//
// A non-positive size uses DefaultSecretSize. crypto/rand aborts the process
// if the system entropy source fails, so there is no error to return.
func RandomSecret(size int) string {
	if size <= 0 {
		size = DefaultSecretSize
	}

	buf := make([]byte, size)
	_, _ = rand.Read(buf)

	return b32NoPadding.EncodeToString(buf)
}
