package auth

import (
	"github.com/goliatone/go-errors"
)

const (
	textCodeMissingFields      = "MISSING_FIELDS"
	textCodeUserExists         = "USER_EXISTS"
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeNotAuthorized      = "NOT_AUTHORIZED"
	textCodeUserNotFound       = "USER_NOT_FOUND"
	textCodeTokenExpired       = "TOKEN_EXPIRED"
	textCodeTokenInvalid       = "TOKEN_INVALID"
	textCodeAdminOnly          = "ADMIN_ONLY"
)

// ErrMissingRegistrationFields is returned when a register payload is incomplete.
var ErrMissingRegistrationFields = errors.New("username, email, and password are required", errors.CategoryValidation).
	WithTextCode(textCodeMissingFields).
	WithCode(errors.CodeBadRequest)

// ErrMissingLoginFields is returned when a login payload is incomplete.
var ErrMissingLoginFields = errors.New("email and password are required", errors.CategoryValidation).
	WithTextCode(textCodeMissingFields).
	WithCode(errors.CodeBadRequest)

// ErrUserExists is returned when registration hits an email already on file.
// Rendered as 400 rather than 409 to match the public API contract.
var ErrUserExists = errors.New("user already exists", errors.CategoryConflict).
	WithTextCode(textCodeUserExists).
	WithCode(errors.CodeBadRequest)

// ErrInvalidCredentials covers both an unknown email and a failed password
// check. The two cases must stay indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("incorrect email or password", errors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(errors.CodeBadRequest)

// ErrNotAuthorized is returned when a request reaches a protected operation
// without claims attached.
var ErrNotAuthorized = errors.New("not authorized", errors.CategoryAuth).
	WithTextCode(textCodeNotAuthorized).
	WithCode(errors.CodeUnauthorized)

// ErrUserNotFound is returned when claims reference a user that no longer exists.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(textCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrTokenExpired is returned when a token is older than the configured max age.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalid is returned for malformed tokens and signature mismatches.
var ErrTokenInvalid = errors.New("token is malformed or its signature does not match", errors.CategoryAuth).
	WithTextCode(textCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrAdminOnly is returned by the access control guard.
var ErrAdminOnly = errors.New("Access denied. Admins only.", errors.CategoryAuthz).
	WithTextCode(textCodeAdminOnly).
	WithCode(errors.CodeForbidden)

// ErrNoEmptyString is returned when hashing an empty password.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the uniform credential verification failure.
var ErrMismatchedHashAndPassword = errors.New("hashed password does not match", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)
