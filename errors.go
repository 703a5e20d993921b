package identity

import (
	stderrors "errors"
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode("IDENTITY_NOT_FOUND")

// ErrIdentityStoreUnavailable means the store failed for reasons other
// than a missing row. Callers should retry, not treat it as anonymous.
var ErrIdentityStoreUnavailable = errors.New("identity store temporarily unavailable", errors.CategoryInternal).
	WithTextCode("IDENTITY_STORE_UNAVAILABLE")

// ErrTokenExpired session token was valid but past its expiry
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed session token could not be parsed or verified
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED")

// ErrActionTokenInvalid action token failed signature or shape checks
var ErrActionTokenInvalid = errors.New("action token is invalid", errors.CategoryAuth).
	WithTextCode("ACTION_TOKEN_INVALID")

// ErrActionTokenExpired action token carried a valid signature but expired
var ErrActionTokenExpired = errors.New("action token is expired", errors.CategoryAuth).
	WithTextCode("ACTION_TOKEN_EXPIRED")

// ErrActionMismatch action token was minted for a different action
var ErrActionMismatch = errors.New("action token action mismatch", errors.CategoryAuth).
	WithTextCode("ACTION_MISMATCH")

// ErrMismatchedHashAndPassword password did not match the stored hash
var ErrMismatchedHashAndPassword = errors.New("password does not match", errors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH")

// ErrNoEmptyString empty values are not hashable
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryBadInput).
	WithTextCode("EMPTY_VALUE")

// ErrUnableToFindSession is the error when our request has no cookie
var ErrUnableToFindSession = stderrors.New("unable to find session")

// ErrUnableToDecodeSession unable to decode JWT from session cookie
var ErrUnableToDecodeSession = stderrors.New("unable to decode session")

// ErrUnableToMapClaims unable to get claims from token
var ErrUnableToMapClaims = stderrors.New("unable to map claims")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, ErrTokenExpired) || stderrors.Is(err, ErrActionTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, ErrTokenMalformed) || stderrors.Is(err, ErrActionTokenInvalid) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
