// Package common defines shared constants and sentinel errors used across
// client and server layers of Vaultacks. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrorNotFound  = errors.New("not found")
	ErrUnsupported = errors.New("operation not supported by backend")

	// Synchronizer errors. ErrFetchFailed is the single signal surfaced to
	// the user when documents cannot be loaded.
	ErrFetchFailed     = errors.New("fetch failed")
	ErrVersionConflict = errors.New("version conflict")

	// Overview server request errors.
	ErrEmptyBody   = errors.New("empty body")
	ErrInvalidBody = errors.New("body is not a JSON document")

	// File operation errors.
	ErrInvalidPath   = errors.New("invalid path")
	ErrAlreadyPublic = errors.New("file is already public")

	// Crypto errors.
	ErrDecrypt    = errors.New("decryption failed")
	ErrInvalidKey = errors.New("invalid key")

	// Service-level errors.
	ErrorUnauthorized = errors.New("unauthorized")

	// Identity errors.
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	ErrNotLoggedIn     = errors.New("not logged in")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
