package goerror

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by storage adapters. Use cases translate them into
// *Error values before they reach a transport.
var (
	ErrNotFound = errors.New("resource not found")
	ErrConflict = errors.New("resource conflict")
)

// Type groups errors by who is at fault.
type Type int

const (
	TypeServer Type = iota
	TypeBusiness
	TypeValidation
)

func (t Type) String() string {
	switch t {
	case TypeServer:
		return "server"
	case TypeBusiness:
		return "business"
	case TypeValidation:
		return "validation"
	}
	return "unknown"
}

// Code identifies the failure and decides the HTTP status.
type Code int

const (
	CodeInternal Code = iota
	CodeInvalidFormat
	CodeInvalidInput
	CodeNotFound
	CodeConflict
)

var codeMeta = map[Code]struct {
	name   string
	status int
}{
	CodeInternal:      {"internal", http.StatusInternalServerError},
	CodeInvalidFormat: {"invalid_format", http.StatusBadRequest},
	CodeInvalidInput:  {"invalid_input", http.StatusUnprocessableEntity},
	CodeNotFound:      {"not_found", http.StatusNotFound},
	CodeConflict:      {"conflict", http.StatusConflict},
}

func (c Code) String() string {
	if m, ok := codeMeta[c]; ok {
		return m.name
	}
	return codeMeta[CodeInternal].name
}

// Error carries a client-safe message next to the underlying cause.
//
// Error() reports the cause when there is one, so logs keep the detail while
// Msg() is what a transport shows to the caller.
type Error struct {
	cause   error
	msg     string
	errType Type
	code    Code
	fields  map[string]string
}

func (e *Error) Error() string {
	switch {
	case e.cause != nil:
		return e.cause.Error()
	case e.msg != "":
		return e.msg
	}
	return e.errType.String() + " error"
}

// String is the verbose form used in test failures and debug logs.
func (e *Error) String() string {
	return fmt.Sprintf("goerror{type=%s code=%s msg=%q cause=%v}", e.errType, e.code, e.msg, e.cause)
}

func (e *Error) Msg() string               { return e.msg }
func (e *Error) Type() Type               { return e.errType }
func (e *Error) Code() Code               { return e.code }
func (e *Error) Fields() map[string]string { return e.fields }
func (e *Error) Unwrap() error            { return e.cause }

// StatusCode is the HTTP status for the error's code.
func (e *Error) StatusCode() int {
	if m, ok := codeMeta[e.code]; ok {
		return m.status
	}
	return http.StatusInternalServerError
}

// NewServer hides cause behind a generic message.
func NewServer(cause error) error {
	return &Error{cause: cause, msg: "Internal server error", errType: TypeServer, code: CodeInternal}
}

// NewBusiness reports a rule violation the caller can act on.
func NewBusiness(msg string, code Code) error {
	return &Error{msg: msg, errType: TypeBusiness, code: code}
}

// NewInvalidInput reports failed validation. The cause is usually a
// validator.V10ValidationError; without one, kv is read as field/message
// pairs. An odd kv length is itself a malformed request.
func NewInvalidInput(cause error, kv ...string) error {
	if cause == nil && len(kv)%2 != 0 {
		return NewInvalidFormat()
	}

	e := &Error{cause: cause, msg: "Validation error", errType: TypeValidation, code: CodeInvalidInput}
	if cause == nil {
		e.fields = make(map[string]string, len(kv)/2)
		for i := 0; i < len(kv); i += 2 {
			e.fields[kv[i]] = kv[i+1]
		}
	}
	return e
}

// NewInvalidFormat reports a body that could not be decoded at all.
func NewInvalidFormat(msgs ...string) error {
	msg := "Invalid request body"
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	return &Error{msg: msg, errType: TypeValidation, code: CodeInvalidFormat}
}

// IsCode reports whether err is an *Error carrying code.
func IsCode(err error, code Code) bool {
	var gerr *Error
	return errors.As(err, &gerr) && gerr.code == code
}
