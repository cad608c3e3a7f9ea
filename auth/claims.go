package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimsPayload is the identity asserted by a token. It is derived from a
// User at issuance and never carries the password digest.
type ClaimsPayload struct {
	UserID   string   `json:"_id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Role     UserRole `json:"role"`
}

// JWTClaims wraps the payload under the "data" claim alongside the
// registered timestamp claims.
type JWTClaims struct {
	jwt.RegisteredClaims
	Data ClaimsPayload `json:"data"`
}

// NewClaimsPayload builds the token payload for an identity
func NewClaimsPayload(identity Identity) ClaimsPayload {
	role, ok := ParseRole(identity.Role())
	if !ok {
		role = RoleUser
	}

	return ClaimsPayload{
		UserID:   identity.ID(),
		Username: identity.Username(),
		Email:    identity.Email(),
		Role:     role,
	}
}

// UserID returns the payload's user identifier, falling back to the subject
func (c *JWTClaims) UserID() string {
	if c.Data.UserID != "" {
		return c.Data.UserID
	}
	return c.RegisteredClaims.Subject
}

// Username returns the payload's username
func (c *JWTClaims) Username() string {
	return c.Data.Username
}

// Email returns the payload's email
func (c *JWTClaims) Email() string {
	return c.Data.Email
}

// Role returns the payload's role
func (c *JWTClaims) Role() UserRole {
	return c.Data.Role
}

// HasRole checks if the claims carry exactly the given role
func (c *JWTClaims) HasRole(role UserRole) bool {
	return c.Data.Role == role
}

// IsAtLeast checks if the claims' role meets the minimum required role
func (c *JWTClaims) IsAtLeast(minRole UserRole) bool {
	return c.Data.Role.IsAtLeast(minRole)
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Expires returns the expiration time embedded at issuance. Verification
// does not trust this value; see TokenService.Validate.
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}
