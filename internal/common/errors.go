package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("invalid credentials")
	ErrValidation     = errors.New("validation error")

	// Credential errors. All of them reject the request as unauthenticated.
	ErrMissingCredential   = errors.New("missing authorization header")
	ErrInvalidAuthHeader   = errors.New("invalid authorization header")
	ErrMalformedCredential = errors.New("malformed credential")
	ErrExpiredCredential   = errors.New("credential expired")
	ErrRevokedCredential   = errors.New("credential revoked")
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountDeactivated  = errors.New("account deactivated")

	// Matched by DenyError and ConflictError through errors.Is.
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
)

// Deny reasons reported by the authorization guard.
const (
	ReasonUnauthenticated       = "unauthenticated"
	ReasonNotOwner              = "not_owner"
	ReasonAdministratorRequired = "administrator_required"
	ReasonUnknownAction         = "unknown_action"
)

// DenyError is returned when an authenticated request is not allowed.
type DenyError struct {
	Reason string
}

func (e *DenyError) Error() string { return "forbidden: " + e.Reason }

func (e *DenyError) Is(target error) bool { return target == ErrForbidden }

// Deny builds a DenyError with the given reason.
func Deny(reason string) error { return &DenyError{Reason: reason} }

// ConflictError reports a uniqueness violation on Field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string { return fmt.Sprintf("%s already exists", e.Field) }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// Conflict builds a ConflictError for field.
func Conflict(field string) error { return &ConflictError{Field: field} }

// IsCredentialError reports whether err means the caller is not authenticated.
func IsCredentialError(err error) bool {
	for _, target := range []error{
		ErrorUnauthorized,
		ErrMissingCredential,
		ErrInvalidAuthHeader,
		ErrMalformedCredential,
		ErrExpiredCredential,
		ErrRevokedCredential,
		ErrAccountNotFound,
		ErrAccountDeactivated,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
