package federation

import "github.com/goliatone/go-errors"

const (
	TextCodeFederationFailed  = "federation_failed"
	TextCodeProviderNotFound  = "federation_provider_not_found"
	TextCodeInvalidState      = "federation_invalid_state"
	TextCodeStateExpired      = "federation_state_expired"
	TextCodeExchangeFail      = "federation_token_exchange_failed"
	TextCodeUserInfoFail      = "federation_user_info_failed"
	TextCodeMissingProviderID = "federation_missing_provider_id"
)

// ErrFederationFailed is the umbrella error callers see when the
// handshake or local user resolution breaks.
var ErrFederationFailed = errors.New("federated authentication failed", errors.CategoryAuth).
	WithTextCode(TextCodeFederationFailed).
	WithCode(errors.CodeUnauthorized)

// ErrProviderNotFound is returned when a requested provider is not configured.
var ErrProviderNotFound = errors.New("identity provider not found", errors.CategoryNotFound).
	WithTextCode(TextCodeProviderNotFound).
	WithCode(errors.CodeNotFound)

// ErrInvalidState is returned when the OAuth state is invalid or tampered.
var ErrInvalidState = errors.New("invalid oauth state", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidState).
	WithCode(errors.CodeBadRequest)

// ErrStateExpired is returned when the OAuth state has expired.
var ErrStateExpired = errors.New("oauth state expired", errors.CategoryBadInput).
	WithTextCode(TextCodeStateExpired).
	WithCode(errors.CodeBadRequest)

// ErrExchangeFailed is returned when a provider token exchange fails.
var ErrExchangeFailed = errors.New("token exchange failed", errors.CategoryAuth).
	WithTextCode(TextCodeExchangeFail).
	WithCode(errors.CodeUnauthorized)

// ErrUserInfoFailed is returned when fetching user info fails.
var ErrUserInfoFailed = errors.New("failed to fetch user info", errors.CategoryAuth).
	WithTextCode(TextCodeUserInfoFail).
	WithCode(errors.CodeUnauthorized)

// ErrMissingProviderID is returned when the provider profile carries no
// stable subject identifier.
var ErrMissingProviderID = errors.New("provider profile has no user id", errors.CategoryAuth).
	WithTextCode(TextCodeMissingProviderID).
	WithCode(errors.CodeUnauthorized)
