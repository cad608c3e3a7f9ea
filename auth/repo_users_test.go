package auth_test

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/bookmarkd/bookmarkd/auth"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newUsersDB(t *testing.T) (*bun.DB, auth.Users) {
	t.Helper()

	// A named in-memory database so every connection in the pool sees the
	// same tables.
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	_, err = db.NewCreateTable().
		Model((*auth.User)(nil)).
		IfNotExists().
		Exec(context.Background())
	require.NoError(t, err)

	return db, auth.NewUsersRepository(db)
}

func TestUsersRepositoryRegister(t *testing.T) {
	_, repo := newUsersDB(t)
	ctx := context.Background()

	created, err := repo.Register(ctx, &auth.User{
		Username:     "pepe",
		Email:        "pepe@example.com",
		PasswordHash: "$2a$14$notarealhash",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, auth.RoleUser, created.Role)

	found, err := repo.GetByEmail(ctx, "pepe@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "pepe", byID.Username)
}

func TestUsersRepositoryRegisterDuplicateEmail(t *testing.T) {
	_, repo := newUsersDB(t)
	ctx := context.Background()

	_, err := repo.Register(ctx, &auth.User{
		Username:     "pepe",
		Email:        "pepe@example.com",
		PasswordHash: "$2a$14$notarealhash",
	})
	require.NoError(t, err)

	_, err = repo.Register(ctx, &auth.User{
		Username:     "imposter",
		Email:        "pepe@example.com",
		PasswordHash: "$2a$14$anotherhash",
	})
	require.ErrorIs(t, err, auth.ErrUserExists)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUsersRepositoryLookupMiss(t *testing.T) {
	_, repo := newUsersDB(t)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestUsersRepositoryGetOrCreateByExternalID(t *testing.T) {
	_, repo := newUsersDB(t)
	ctx := context.Background()
	externalID := "5550001"

	first, created, err := repo.GetOrCreateByExternalID(ctx, &auth.User{
		Username:     "octocat",
		Email:        "octocat@example.com",
		PasswordHash: auth.RandomPasswordHash(),
		GithubID:     &externalID,
	})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.GetOrCreateByExternalID(ctx, &auth.User{
		Username:     "octocat",
		Email:        "octocat@example.com",
		PasswordHash: auth.RandomPasswordHash(),
		GithubID:     &externalID,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// rivalInsert sneaks a competing row into the table right before the
// repository's own insert executes, reproducing the window between the
// lookup miss and the create in which a concurrent first login can land.
type rivalInsert struct {
	db     *bun.DB
	record *auth.User
	fired  bool
	err    error
}

func (h *rivalInsert) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	if h.fired || !strings.HasPrefix(event.Query, "INSERT") {
		return ctx
	}
	h.fired = true
	_, h.err = h.db.NewInsert().Model(h.record).Exec(ctx)
	return ctx
}

func (h *rivalInsert) AfterQuery(context.Context, *bun.QueryEvent) {}

func TestUsersRepositoryFirstLoginRaceResolvesToWinner(t *testing.T) {
	db, repo := newUsersDB(t)
	ctx := context.Background()
	externalID := "5550001"

	winner := &auth.User{
		ID:           uuid.New(),
		Username:     "octocat",
		Email:        "octocat@example.com",
		PasswordHash: auth.RandomPasswordHash(),
		GithubID:     &externalID,
		Role:         auth.RoleUser,
	}

	hook := &rivalInsert{db: db, record: winner}
	db.AddQueryHook(hook)

	got, created, err := repo.GetOrCreateByExternalID(ctx, &auth.User{
		Username:     "octocat",
		Email:        "octocat-stale@example.com",
		PasswordHash: auth.RandomPasswordHash(),
		GithubID:     &externalID,
	})

	require.True(t, hook.fired)
	require.NoError(t, hook.err)
	require.NoError(t, err)

	// The unique index rejected our insert; the caller still gets exactly
	// one account, the one the winner created.
	assert.False(t, created)
	assert.Equal(t, winner.ID, got.ID)
	assert.Equal(t, "octocat@example.com", got.Email)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
