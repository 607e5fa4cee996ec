// Package mfa protects multi-factor material, such as TOTP shared secrets, at
// rest.
package mfa
