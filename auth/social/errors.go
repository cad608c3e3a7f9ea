package social

import "github.com/goliatone/go-errors"

const (
	TextCodeInvalidState      = "social_invalid_state"
	TextCodeStateExpired      = "social_state_expired"
	TextCodeTokenExchangeFail = "social_token_exchange_failed"
	TextCodeUserInfoFail      = "social_user_info_failed"
	TextCodeFederatedLogin    = "social_federated_login_failed"
	TextCodeSessionKey        = "social_session_key_invalid"
)

// ErrInvalidState is returned when the OAuth state is invalid or tampered.
var ErrInvalidState = errors.New("invalid oauth state", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidState).
	WithCode(errors.CodeBadRequest)

// ErrStateExpired is returned when the OAuth state has expired.
var ErrStateExpired = errors.New("oauth state expired", errors.CategoryBadInput).
	WithTextCode(TextCodeStateExpired).
	WithCode(errors.CodeBadRequest)

// ErrTokenExchangeFailed is returned when a provider token exchange fails.
var ErrTokenExchangeFailed = errors.New("token exchange failed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExchangeFail).
	WithCode(errors.CodeUnauthorized)

// ErrUserInfoFailed is returned when fetching user info fails.
var ErrUserInfoFailed = errors.New("failed to fetch user info", errors.CategoryAuth).
	WithTextCode(TextCodeUserInfoFail).
	WithCode(errors.CodeUnauthorized)

// ErrFederatedLogin is the generic failure surfaced to callers when a
// federated login cannot be completed.
var ErrFederatedLogin = errors.New("federated login failed", errors.CategoryAuth).
	WithTextCode(TextCodeFederatedLogin).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidSessionKey is returned when a serialized user key cannot be
// resolved back to a record.
var ErrInvalidSessionKey = errors.New("invalid session key", errors.CategoryAuth).
	WithTextCode(TextCodeSessionKey).
	WithCode(errors.CodeUnauthorized)
