package qrcode

import (
	"errors"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the default PNG width and height in pixels.
const DefaultSize = 256

// ErrEmptyContent indicates there is nothing to encode.
var ErrEmptyContent = errors.New("qrcode: content is empty")

// Renderer turns a text payload into image bytes.
type Renderer interface {
	Render(content string) ([]byte, error)
}

// PNG renders QR codes as PNG images.
type PNG struct {
	size  int
	level qrcode.RecoveryLevel
}

// NewPNG constructs a PNG renderer.
//
// level is one of "low", "medium", "high" or "highest" and defaults to "low",
// which keeps long otpauth URIs scannable at small sizes.
func NewPNG(size int, level string) *PNG {
	if size <= 0 {
		size = DefaultSize
	}

	return &PNG{size: size, level: parseLevel(level)}
}

// Render encodes content into a square PNG.
func (p *PNG) Render(content string) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}

	return qrcode.Encode(content, p.level, p.size)
}

func parseLevel(level string) qrcode.RecoveryLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "medium":
		return qrcode.Medium
	case "high":
		return qrcode.High
	case "highest":
		return qrcode.Highest
	default:
		return qrcode.Low
	}
}
