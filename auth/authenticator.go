package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// AuthPayload is the result of a successful register or login
type AuthPayload struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// Auther stitches credential verification, the user store, and the token
// service together into the operations the HTTP layer calls.
type Auther struct {
	store  UserStore
	tokens *TokenService
	logger Logger
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(store UserStore, tokens *TokenService) *Auther {
	return &Auther{
		store:  store,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// TokenService returns the TokenService instance used by this Auther
func (s *Auther) TokenService() *TokenService {
	return s.tokens
}

// Register creates a new local account and issues its first token
func (s *Auther) Register(ctx context.Context, username, email, password string) (*AuthPayload, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, ErrMissingRegistrationFields
	}

	if _, err := s.store.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.IsNotFound(err) {
		s.logger.Error("register email lookup failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check existing user")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user, err := s.store.Register(ctx, &User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		// A concurrent registration can slip past the lookup above; the
		// store's uniqueness constraint is the authority.
		if errors.Is(err, ErrUserExists) {
			return nil, ErrUserExists
		}
		s.logger.Error("register create failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}

	return s.issuePayload(user)
}

// Login verifies a local credential pair and issues a token. Unknown email
// and wrong password produce the identical error.
func (s *Auther) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return nil, ErrMissingLoginFields
	}

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("login email lookup failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issuePayload(user)
}

// CurrentUser resolves the claims to a fresh store read so role or
// username changes since issuance are reflected.
func (s *Auther) CurrentUser(ctx context.Context, claims *JWTClaims) (*User, error) {
	if claims == nil {
		return nil, ErrNotAuthorized
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return nil, ErrNotAuthorized
	}

	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("current user lookup failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve current user")
	}

	return user, nil
}

// ListUsers returns the non-secret projection of every user
func (s *Auther) ListUsers(ctx context.Context) ([]PublicUser, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		s.logger.Error("list users failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list users")
	}

	out := make([]PublicUser, 0, len(records))
	for _, record := range records {
		out = append(out, record.Public())
	}

	return out, nil
}

// IssueToken signs a token for the given user. The federated identity
// bridge hands resolved users to this same path local login uses.
func (s *Auther) IssueToken(user *User) (*AuthPayload, error) {
	return s.issuePayload(user)
}

func (s *Auther) issuePayload(user *User) (*AuthPayload, error) {
	identity := NewIdentityFromUser(user)
	if identity == nil {
		return nil, ErrNotAuthorized
	}

	token, err := s.tokens.Generate(identity)
	if err != nil {
		s.logger.Error("token generation failed", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to generate token")
	}

	return &AuthPayload{
		Token: token,
		User:  user.Public(),
	}, nil
}
