// Package otp provides helpers for generating and validating one-time
// passwords (OTP), focused on TOTP (time-based OTP).
//
// The HOTP/TOTP derivation (RFC 4226 / RFC 6238) is implemented here directly
// so the truncation, modulo and zero-padding rules are under our control. The
// Digits and Algorithm types come from github.com/pquerna/otp so the values
// written into provisioning URIs match what authenticator apps expect.
//
// Typical usage: generate a secret and URI for an authenticator app, then
// validate user-provided codes.
package otp
