// Package apperr holds the error kinds shared by services and the HTTP error handler.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func Unauthorized(msg string) error { return &kindError{kind: ErrUnauthorized, msg: msg} }
func Forbidden(msg string) error    { return &kindError{kind: ErrForbidden, msg: msg} }
func NotFound(msg string) error     { return &kindError{kind: ErrNotFound, msg: msg} }

// ValidationError reports rejected input. Fields maps a field path to its problem.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func Invalid(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// InvalidField is shorthand for a single-field validation failure.
func InvalidField(field, problem string) *ValidationError {
	return &ValidationError{Message: "validation failed", Fields: map[string]string{field: problem}}
}

// AsValidation unwraps err into a *ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
