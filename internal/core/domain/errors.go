package domain

import (
	"errors"
	"fmt"
)

// Startup faults.
var ErrConfigurationMissing = errors.New("configuration missing")

// Caller and lookup faults.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUserNotFound is only produced at the HTTP edge; repositories and
	// services report absence as a nil user.
	ErrUserNotFound = errors.New("user not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Store faults. They are never retried.
var (
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrStoreOperationFailed = errors.New("store operation failed")
	ErrDeleteFailed         = errors.New("user existed but could not be deleted")
)

// Authentication and authorization faults.
var (
	ErrInvalidCredentials     = errors.New("invalid username or password")
	ErrTooManyAttempts        = errors.New("too many failed login attempts")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("access forbidden")
	ErrAuthServiceUnavailable = errors.New("auth service unavailable")
)

// MissingSecretError names a required secret that was absent or empty.
type MissingSecretError struct {
	Field string
	Path  string
}

func (e *MissingSecretError) Error() string {
	return fmt.Sprintf("%s not found in secret store at %s", e.Field, e.Path)
}

// Is makes every MissingSecretError match ErrConfigurationMissing.
func (e *MissingSecretError) Is(target error) bool {
	return target == ErrConfigurationMissing
}
