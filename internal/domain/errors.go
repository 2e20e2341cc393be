package domain

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrInvalidInput        = errors.New("invalid_input")
	ErrInsufficientBalance = errors.New("insufficient_balance")
	ErrInstrumentNotFound  = errors.New("instrument_not_found")
	ErrOrderNotFound       = errors.New("order_not_found")
	ErrSessionNotFound     = errors.New("session_not_found")
	ErrArchiveDisabled     = errors.New("archive_disabled")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FieldErrors is a set of per-field validation failures, keyed by field name.
type FieldErrors map[string]string

// Add records msg for field unless the field already has an error.
func (e FieldErrors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Empty reports whether no field failed.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

// Err returns e as an error, or nil when no field failed.
func (e FieldErrors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return strings.Join(parts, "; ")
}
