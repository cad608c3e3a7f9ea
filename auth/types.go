package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
}

// UserStore is the persistence collaborator the auth core depends on.
// The bun-backed Users repository satisfies it; tests provide fakes.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
	List(ctx context.Context) ([]*User, error)
}

// TokenVerifier validates a raw token and returns its claims
type TokenVerifier interface {
	Validate(tokenString string) (*JWTClaims, error)
}

// TokenIssuer signs a token for an identity
type TokenIssuer interface {
	Generate(identity Identity) (string, error)
}

// DefaultLogger returns the stdout logger used when no Logger is provided
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
