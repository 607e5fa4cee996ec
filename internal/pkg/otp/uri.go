package otp

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/pquerna/otp"
)

// ErrInvalidAccountName indicates an empty account name for a provisioning URI.
var ErrInvalidAccountName = errors.New("otp: account name is required")

// ProvisioningURI formats the otpauth URI consumed by authenticator apps:
//
//	otpauth://totp/{issuer}:{account}?secret=...&issuer=...&algorithm=SHA1&digits=6&period=30
//
// issuer and accountName are percent-encoded as URI components. secret is
// written as is since base32 is already URL-safe.
func ProvisioningURI(issuer, accountName, secret string, digits otp.Digits, period uint) (string, error) {
	if accountName == "" {
		return "", ErrInvalidAccountName
	}

	var b strings.Builder
	b.WriteString("otpauth://totp/")
	b.WriteString(escapeComponent(issuer))
	b.WriteByte(':')
	b.WriteString(escapeComponent(accountName))
	b.WriteString("?secret=")
	b.WriteString(secret)
	b.WriteString("&issuer=")
	b.WriteString(escapeComponent(issuer))
	b.WriteString("&algorithm=")
	b.WriteString(otp.AlgorithmSHA1.String())
	b.WriteString("&digits=")
	b.WriteString(digits.String())
	b.WriteString("&period=")
	b.WriteString(strconv.FormatUint(uint64(period), 10))

	return b.String(), nil
}

// escapeComponent escapes s so it is safe in both the label and the query,
// using %20 for spaces instead of '+'.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
