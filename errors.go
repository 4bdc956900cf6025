package userauth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("IDENTITY_NOT_FOUND")

// ErrMismatchedHashAndPassword is returned for any credential mismatch. We
// reuse it for unknown identifiers so callers cannot tell an unknown user
// apart from a wrong password.
var ErrMismatchedHashAndPassword = errors.New("invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeBadRequest).
	WithTextCode("INVALID_CREDENTIALS")

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode("EMPTY_PASSWORD")

// ErrTokenMalformed covers tokens that cannot be parsed into claims
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_MALFORMED")

// ErrTokenSignatureInvalid covers tokens whose MAC does not verify
var ErrTokenSignatureInvalid = errors.New("token signature is invalid", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_BAD_SIGNATURE")

// ErrTokenExpired covers tokens past their expiry instant
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_EXPIRED")

// ErrUnableToMapClaims unable to get claims from token
var ErrUnableToMapClaims = errors.New("unable to map claims", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("CLAIMS_UNMAPPABLE")

// ErrUserNotActive is returned at login for inactive accounts
var ErrUserNotActive = errors.New("user is not active", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("USER_NOT_ACTIVE")

// ErrUserLocked is returned at login for locked accounts
var ErrUserLocked = errors.New("user is locked", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("USER_LOCKED")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsBadCredentialsError groups every failure we surface as a generic
// invalid credentials response at the login boundary.
func IsBadCredentialsError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrMismatchedHashAndPassword) ||
		errors.Is(err, ErrIdentityNotFound) ||
		errors.Is(err, ErrUserNotActive) ||
		errors.Is(err, ErrUserLocked)
}
