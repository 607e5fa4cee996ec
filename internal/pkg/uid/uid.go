// Package uid generates identifiers: UUIDv7 strings for correlation ids and
// snowflake numbers for stored rows.
package uid

// StringID generates opaque string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates monotonically increasing numeric identifiers.
type NumberID interface {
	Generate() int64
}
