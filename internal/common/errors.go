// Package common defines shared constants and sentinel errors used across
// PulseCity components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrValidation     = errors.New("validation error")

	// Account errors.
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrProfileMissing       = errors.New("please logged in !!!!")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Upstream errors.
	ErrUpstreamAuth       = errors.New("upstream auth failure")
	ErrUpstreamDependency = errors.New("upstream dependency failure")
)
