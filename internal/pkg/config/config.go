package config

import (
	"io"
	"time"
)

// Config defines a set of methods for retrieving configuration values of various types.
//
// Missing keys or values that cannot be converted yield the zero value.
type Config interface {
	io.Closer

	// IsSet reports whether key has a value in the file or the environment.
	IsSet(key string) bool

	// GetBool retrieves the value associated with key as a bool.
	GetBool(key string) bool

	// GetString retrieves the value associated with key as a string.
	GetString(key string) string

	// GetInt retrieves the value associated with key as an int.
	GetInt(key string) int

	// GetInt32 retrieves the value associated with key as an int32.
	GetInt32(key string) int32

	// GetInt64 retrieves the value associated with key as an int64.
	GetInt64(key string) int64

	// GetUint retrieves the value associated with key as a uint.
	GetUint(key string) uint

	// GetFloat64 retrieves the value associated with key as a float64.
	GetFloat64(key string) float64

	// GetSecond retrieves the value associated with key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetBinary retrieves the base64 encoded value associated with key as raw bytes.
	GetBinary(key string) []byte

	// GetArray retrieves the value associated with key as a slice of strings.
	// The value is stored as <element1>,<element2>,... or as a YAML list;
	// elements are trimmed and empty ones dropped.
	GetArray(key string) []string
}
