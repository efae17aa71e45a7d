// Package common defines sentinel errors shared across the service layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")

	// Input / credential errors.
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCorruptDigest      = errors.New("corrupt password digest")

	// Service-level errors (generic flow control).
	ErrInternal            = errors.New("internal error")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// Token lifecycle errors. The distinction is for internal logging only;
	// the transport layer reports all of them as a uniform unauthorized.
	ErrTokenMalformed    = errors.New("malformed token")
	ErrTokenBadSignature = errors.New("bad token signature")
	ErrTokenExpired      = errors.New("token expired")
)
