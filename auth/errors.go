package auth

import (
	"database/sql"
	"errors"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
)

// ErrIdentityNotFound is the error we return when no strategy matched
var ErrIdentityNotFound = errors.New("identity not found")

// ErrOrphanProfile marks a profile that matched by email but has no linked
// user account. A provisioning defect, never to be folded into NotFound:
// callers log it in full and surface a generic failure externally.
var ErrOrphanProfile = errors.New("profile has no linked user account")

// ErrInvalidCredentials is the single outcome exposed for any login failure
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrMismatchedHashAndPassword password verification failed
var ErrMismatchedHashAndPassword = errors.New("password does not match hash")

// ErrNoEmptyString input must not be empty
var ErrNoEmptyString = errors.New("value must not be an empty string")

// ErrTokenExpired the token is past its exp claim
var ErrTokenExpired = errors.New("token is expired")

// ErrTokenMalformed the token could not be parsed or its signature is invalid
var ErrTokenMalformed = errors.New("token is malformed")

// ErrSubjectMismatch the token subject does not match the expected login
var ErrSubjectMismatch = errors.New("token subject mismatch")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsRecordNotFound normalizes the not-found signals of the store layer.
func IsRecordNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, sql.ErrNoRows) || repository.IsRecordNotFound(err)
}
