// Package validator checks structs tagged with `validate` rules and reports
// failures as a snake_case field to message map.
//
// The go-playground/validator v10 implementation adds a "printable" rule that
// rejects control characters.
package validator
