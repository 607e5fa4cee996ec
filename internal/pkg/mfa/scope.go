package mfa

// Purpose identifies the MFA encryption purpose.
type Purpose string

// PurposeOTPSeed scopes encryption to TOTP shared secrets.
const PurposeOTPSeed Purpose = "otp_seed"

// Scope binds a ciphertext to the account it belongs to.
// It is used as AAD (Additional Authenticated Data) in AES-GCM, so a secret
// copied onto another account's record fails to decrypt.
type Scope struct {
	// AccountID is the account identifier the secret was issued for.
	AccountID string
	// Purpose is the encryption purpose.
	Purpose Purpose
}
