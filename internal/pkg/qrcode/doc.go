// Package qrcode renders text payloads (such as otpauth provisioning URIs) as
// QR code images.
package qrcode
