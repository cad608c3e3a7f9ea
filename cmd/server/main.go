package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bookmarkd/bookmarkd/api"
	"github.com/bookmarkd/bookmarkd/auth"
	"github.com/bookmarkd/bookmarkd/auth/social"
	"github.com/bookmarkd/bookmarkd/auth/social/github"
	"github.com/bookmarkd/bookmarkd/bookmarks"
	"github.com/bookmarkd/bookmarkd/config"
	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	logger := auth.DefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}

	ctx := context.Background()

	db, err := openDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	usersRepo := auth.NewUsersRepository(db)
	bookmarksRepo := bookmarks.NewRepository(db)

	tokens := auth.NewTokenService([]byte(cfg.Auth.SigningKey), cfg.Auth.TokenMaxAge, logger)
	auther := auth.NewAuthenticator(usersRepo, tokens).WithLogger(logger)

	var socialAuth *social.Authenticator
	if cfg.GitHub.Enabled {
		provider := github.New(github.Config{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			CallbackURL:  cfg.GitHub.CallbackURL,
		})
		states := social.NewSignedStateManager([]byte(cfg.Auth.SigningKey), cfg.Auth.StateTTL)
		socialAuth = social.NewAuthenticator(provider, usersRepo, states, auther).WithLogger(logger)
	}

	app := fiber.New(fiber.Config{
		AppName: "bookmarkd",
	})

	api.Register(app, api.Config{
		Auther:     auther,
		Verifier:   tokens,
		Social:     socialAuth,
		Bookmarks:  bookmarksRepo,
		ContextKey: cfg.Auth.ContextKey,
		Logger:     logger,
	})

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("server: %v", err)
		}
	}()

	logger.Info("listening", "addr", cfg.ListenAddr)

	waitExitSignal()

	if err := app.Shutdown(); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := createSchema(ctx, db); err != nil {
		return nil, err
	}

	return db, nil
}

func createSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*auth.User)(nil),
		(*bookmarks.Bookmark)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}

func waitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
