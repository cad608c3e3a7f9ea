package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
)

// App is the process configuration, parsed from the environment once at
// startup. Validation failures are fatal; the server never runs half
// configured.
type App struct {
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":3000"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"file:bookmarkd.db?cache=shared&mode=rwc"`

	Auth   Auth   `envPrefix:"AUTH_"`
	GitHub GitHub `envPrefix:"GITHUB_"`
}

// Auth configures the token codec and session middleware
type Auth struct {
	// SigningKey signs session tokens and the OAuth state. No default: a
	// generated fallback would rotate on restart and silently invalidate
	// every outstanding session.
	SigningKey  string        `env:"SIGNING_KEY"`
	TokenMaxAge time.Duration `env:"TOKEN_MAX_AGE" envDefault:"2h"`
	ContextKey  string        `env:"CONTEXT_KEY" envDefault:"user"`
	StateTTL    time.Duration `env:"STATE_TTL" envDefault:"10m"`
}

// GitHub configures the federated login provider
type GitHub struct {
	Enabled      bool   `env:"ENABLED" envDefault:"false"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	CallbackURL  string `env:"CALLBACK_URL"`
}

// Load parses and validates the process configuration
func Load() (*App, error) {
	cfg := &App{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c App) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ListenAddr, validation.Required),
		validation.Field(&c.DatabaseDSN, validation.Required),
		validation.Field(&c.Auth),
		validation.Field(&c.GitHub),
	)
}

func (c Auth) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SigningKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.TokenMaxAge, validation.Required),
	)
}

// Validate only constrains the provider block when federated login is on
func (c GitHub) Validate() error {
	if !c.Enabled {
		return nil
	}

	return validation.ValidateStruct(&c,
		validation.Field(&c.ClientID, validation.Required),
		validation.Field(&c.ClientSecret, validation.Required),
		validation.Field(&c.CallbackURL, validation.Required),
	)
}
