package social

import (
	"context"
	"fmt"
	"strings"

	"github.com/bookmarkd/bookmarkd/auth"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// UserStore is the slice of the user repository the federated bridge needs
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*auth.User, error)
	GetOrCreateByExternalID(ctx context.Context, record *auth.User) (*auth.User, bool, error)
}

// AuthRedirect is the provider authorization hop handed to the HTTP layer
type AuthRedirect struct {
	URL   string
	State string
}

// Authenticator resolves external provider identities to local accounts.
// A first-time identity is provisioned with a random credential so the
// account can never be entered through the local password path until the
// user explicitly sets one.
type Authenticator struct {
	provider Provider
	store    UserStore
	states   StateManager
	auther   *auth.Auther
	logger   auth.Logger
}

// NewAuthenticator creates a federated authenticator for a single provider
func NewAuthenticator(provider Provider, store UserStore, states StateManager, auther *auth.Auther) *Authenticator {
	return &Authenticator{
		provider: provider,
		store:    store,
		states:   states,
		auther:   auther,
		logger:   auth.DefaultLogger(),
	}
}

func (a *Authenticator) WithLogger(logger auth.Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// Provider returns the configured identity provider
func (a *Authenticator) Provider() Provider {
	return a.provider
}

// Begin issues a signed state value and the provider URL to redirect to
func (a *Authenticator) Begin(ctx context.Context) (*AuthRedirect, error) {
	state, err := a.states.Encode(&OAuthState{
		Provider: a.provider.Name(),
	})
	if err != nil {
		a.logger.Error("state encoding failed", "provider", a.provider.Name(), "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to encode oauth state")
	}

	return &AuthRedirect{
		URL:   a.provider.AuthCodeURL(state),
		State: state,
	}, nil
}

// Complete finishes the provider handshake: verify state, exchange the
// code, fetch the profile, and resolve it to a local account. The returned
// payload is identical in shape to a local login.
func (a *Authenticator) Complete(ctx context.Context, code, stateToken string) (*auth.AuthPayload, error) {
	state, err := a.states.Decode(stateToken)
	if err != nil {
		return nil, err
	}

	if state.Provider != a.provider.Name() {
		return nil, ErrInvalidState
	}

	// Exchange, profile, and provisioning failures are classified for the
	// logs but collapse to one generic error at the boundary; callers learn
	// nothing about which provider step broke.
	token, err := a.provider.Exchange(ctx, code)
	if err != nil {
		a.logger.Error(ErrTokenExchangeFailed.Message, "provider", a.provider.Name(), "error", err)
		return nil, ErrFederatedLogin
	}

	profile, err := a.provider.UserInfo(ctx, token)
	if err != nil {
		a.logger.Error(ErrUserInfoFailed.Message, "provider", a.provider.Name(), "error", err)
		return nil, ErrFederatedLogin
	}

	user, created, err := a.resolveUser(ctx, profile)
	if err != nil {
		a.logger.Error("federated user resolution failed", "provider", a.provider.Name(), "error", err)
		return nil, ErrFederatedLogin
	}

	if created {
		a.logger.Info("provisioned federated user",
			"provider", a.provider.Name(),
			"external_id", profile.ProviderUserID,
		)
	}

	return a.auther.IssueToken(user)
}

// resolveUser maps the provider profile onto a user record and runs the
// find-or-create. Repeat logins for the same external id always land on
// the existing row; the record built here is only used on first sight.
func (a *Authenticator) resolveUser(ctx context.Context, profile *Profile) (*auth.User, bool, error) {
	if profile == nil || profile.ProviderUserID == "" {
		return nil, false, ErrUserInfoFailed
	}

	externalID := profile.ProviderUserID

	record := &auth.User{
		Username:     usernameFor(profile),
		Email:        emailFor(profile),
		PasswordHash: auth.RandomPasswordHash(),
		GithubID:     &externalID,
	}

	return a.store.GetOrCreateByExternalID(ctx, record)
}

func usernameFor(profile *Profile) string {
	if username := strings.TrimSpace(profile.Username); username != "" {
		return username
	}
	return fmt.Sprintf("%s_%s", profile.Provider, profile.ProviderUserID)
}

// emailFor picks the first provider email, falling back to a placeholder
// that satisfies the unique email constraint without claiming a real
// address the user could collide with later.
func emailFor(profile *Profile) string {
	for _, email := range profile.Emails {
		if email = strings.TrimSpace(email); email != "" {
			return email
		}
	}
	return fmt.Sprintf("%s-%s@users.noreply.bookmarkd.local", profile.Provider, profile.ProviderUserID)
}

// SerializeUser reduces a user to the key stored in a session
func SerializeUser(user *auth.User) (string, error) {
	if user == nil || user.ID == uuid.Nil {
		return "", ErrInvalidSessionKey
	}
	return user.ID.String(), nil
}

// DeserializeUser resolves a session key back to a user record
func DeserializeUser(ctx context.Context, store UserStore, key string) (*auth.User, error) {
	id, err := uuid.Parse(key)
	if err != nil {
		return nil, ErrInvalidSessionKey
	}

	user, err := store.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidSessionKey
		}
		return nil, err
	}

	return user, nil
}
