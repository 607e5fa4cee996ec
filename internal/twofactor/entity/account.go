package entity

import "time"

// Account is the enrolled TOTP record of one account identifier.
//
// Secret holds the AES-GCM ciphertext of the base32 shared secret, never the
// plaintext. Records are immutable once created.
type Account struct {
	ID         int64
	AccountID  string
	Secret     []byte
	KeyVersion int16
	CreatedAt  time.Time
}
