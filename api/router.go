package api

import (
	"github.com/bookmarkd/bookmarkd/auth"
	"github.com/bookmarkd/bookmarkd/auth/social"
	"github.com/bookmarkd/bookmarkd/bookmarks"
	"github.com/gofiber/fiber/v2"
)

// Config carries the collaborators the HTTP surface is assembled from.
// Social is optional; when nil the federated routes are not mounted.
type Config struct {
	Auther     *auth.Auther
	Verifier   auth.TokenVerifier
	Social     *social.Authenticator
	Bookmarks  bookmarks.Store
	ContextKey string
	Logger     auth.Logger
}

// Register mounts every route under /api
func Register(app *fiber.App, cfg Config) {
	if cfg.ContextKey == "" {
		cfg.ContextKey = auth.DefaultContextKey
	}
	if cfg.Logger == nil {
		cfg.Logger = auth.DefaultLogger()
	}

	session := auth.NewSessionMiddleware(auth.MiddlewareConfig{
		Verifier:   cfg.Verifier,
		ContextKey: cfg.ContextKey,
		Logger:     cfg.Logger,
	})
	adminOnly := auth.AdminOnly(cfg.ContextKey)

	api := app.Group("/api")

	users := NewUserController(cfg.Auther, cfg.ContextKey, cfg.Logger)
	userRoutes := api.Group("/users")
	userRoutes.Post("/register", users.Register)
	userRoutes.Post("/login", users.Login)
	userRoutes.Get("/me", session, users.Me)
	userRoutes.Get("/", session, adminOnly, users.List)

	if cfg.Social != nil {
		oauth := NewOAuthController(cfg.Social, cfg.Logger)
		provider := cfg.Social.Provider().Name()
		userRoutes.Get("/auth/"+provider, oauth.Begin)
		userRoutes.Get("/auth/"+provider+"/callback", oauth.Callback)
	}

	if cfg.Bookmarks != nil {
		marks := NewBookmarksController(cfg.Bookmarks, cfg.ContextKey, cfg.Logger)
		bookmarkRoutes := api.Group("/bookmarks", session)
		bookmarkRoutes.Get("/", marks.List)
		bookmarkRoutes.Post("/", marks.Create)
	}
}
