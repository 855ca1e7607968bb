package errors

import "fmt"

// MissingFieldError reports a required feature absent from a request record.
type MissingFieldError struct {
	Record int
	Field  string
}

func (m *MissingFieldError) Error() string {
	return fmt.Sprintf("input[%d]: missing required field %q", m.Record, m.Field)
}

// TypeMismatchError reports a feature present with the wrong primitive type.
type TypeMismatchError struct {
	Record   int
	Field    string
	Expected string
}

func (m *TypeMismatchError) Error() string {
	return fmt.Sprintf("input[%d]: field %q must be of type %s", m.Record, m.Field, m.Expected)
}

// BadRequestError covers request-shape problems outside field-level checks,
// e.g. an unparseable body or a missing "input" key.
type BadRequestError struct {
	ErrorMsg string
}

func (m *BadRequestError) Error() string {
	return m.ErrorMsg
}

// ModelInvocationError signals artifact corruption or train/serve schema
// drift. It is never recoverable by fixing the request.
type ModelInvocationError struct {
	ErrorMsg string
	Cause    error
}

func (m *ModelInvocationError) Error() string {
	if m.Cause != nil {
		return fmt.Sprintf("model invocation failed: %s: %v", m.ErrorMsg, m.Cause)
	}
	return fmt.Sprintf("model invocation failed: %s", m.ErrorMsg)
}

func (m *ModelInvocationError) Unwrap() error {
	return m.Cause
}
