package social

import (
	"context"
)

// Provider defines the contract for OAuth2 identity providers.
type Provider interface {
	// Name returns the provider identifier (e.g., "github").
	Name() string

	// AuthCodeURL returns the URL to redirect users for authorization.
	// The state parameter should be included for CSRF protection.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, code string) (*Token, error)

	// UserInfo fetches the user's profile using the access token.
	UserInfo(ctx context.Context, token *Token) (*Profile, error)
}

// Token represents an OAuth2 token response.
type Token struct {
	AccessToken string
	TokenType   string
	Scopes      []string
}

// Profile is the verified external identity a provider hands back after a
// completed handshake. Emails may be empty; providers do not always grant
// email visibility.
type Profile struct {
	ProviderUserID string
	Provider       string
	Username       string
	Emails         []string
}
