package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrDeliveryFailed       = errors.New("code delivery failed")
	ErrNoPendingReset       = errors.New("no pending reset")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrExpiredCode          = errors.New("code expired")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrResetExpiredOrUsed   = errors.New("reset expired or already used")

	ErrEmailTaken          = errors.New("email already registered")
	ErrPhoneTaken          = errors.New("phone number already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountBlocked      = errors.New("account blocked")
	ErrAlreadyActive       = errors.New("account already active")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUserNotFound        = errors.New("user not found")
)

// ValidationError carries field level messages for a form. Cause, when
// set, is one of the sentinels above so callers can still use errors.Is.
type ValidationError struct {
	Fields map[string]string
	Cause  error
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Cause }

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// fieldErrors collects messages and yields nil when nothing was added.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}
