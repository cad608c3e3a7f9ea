package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// DefaultTokenMaxAge is the validity window applied to every issued token
const DefaultTokenMaxAge = 2 * time.Hour

// TokenService signs and verifies the compact bearer tokens used by both
// local and federated login.
type TokenService struct {
	signingKey []byte
	maxAge     time.Duration
	logger     Logger
	now        func() time.Time
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, maxAge time.Duration, logger Logger) *TokenService {
	if maxAge <= 0 {
		maxAge = DefaultTokenMaxAge
	}
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenService{
		signingKey: signingKey,
		maxAge:     maxAge,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Used by tests to simulate expiry.
func (ts *TokenService) WithClock(now func() time.Time) *TokenService {
	if now != nil {
		ts.now = now
	}
	return ts
}

// MaxAge returns the configured validity window
func (ts *TokenService) MaxAge() time.Duration {
	return ts.maxAge
}

// Generate signs a token carrying the identity's claims payload
func (ts *TokenService) Generate(identity Identity) (string, error) {
	if identity == nil {
		return "", errors.New("identity must not be nil", errors.CategoryInternal)
	}

	now := ts.now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.maxAge)),
		},
		Data: NewClaimsPayload(identity),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signedString, nil
}

// Validate parses a token string, verifies its signature, and enforces the
// configured max age against the issued-at claim. The window is checked
// server-side so an embedded expiry extended after signing does not extend
// the token's life.
func (ts *TokenService) Validate(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, jwt.WithTimeFunc(ts.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenInvalid.Category, ErrTokenInvalid.Message).
			WithTextCode(ErrTokenInvalid.TextCode).
			WithCode(errors.CodeUnauthorized)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token validate could not decode claims")
		return nil, ErrTokenInvalid
	}

	if claims.RegisteredClaims.IssuedAt == nil {
		return nil, ErrTokenInvalid
	}

	if ts.now().Sub(claims.RegisteredClaims.IssuedAt.Time) > ts.maxAge {
		return nil, ErrTokenExpired
	}

	return claims, nil
}
