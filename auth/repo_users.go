package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the bun-backed user repository. It satisfies UserStore and adds
// the find-or-create operation the federated identity bridge depends on.
type Users interface {
	UserStore

	// GetOrCreateByExternalID resolves an external provider identity to a
	// user record, provisioning one on first sight. The returned bool is
	// true when a record was created by this call.
	GetOrCreateByExternalID(ctx context.Context, record *User) (*User, bool, error)
}

// The generic repository is held as a field, not embedded: the store-level
// lookups here take typed ids and the promoted string-identifier methods
// would collide with them.
type users struct {
	repo repository.Repository[*User]
	db   *bun.DB
}

var (
	_ Users     = (*users)(nil)
	_ UserStore = (*users)(nil)
)

// NewUsersRepository creates the bun-backed Users repository
func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		repo: repo,
		db:   db,
	}
}

func (a *users) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.getByColumn(ctx, "id", id.String())
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.getByColumn(ctx, "email", strings.TrimSpace(email))
}

func (a *users) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	return a.getByColumn(ctx, "github_id", externalID)
}

func (a *users) getByColumn(ctx context.Context, column, value string) (*User, error) {
	record := &User{}

	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, errors.Wrap(err, errors.CategoryNotFound, "user record not found").
				WithCode(errors.CodeNotFound).
				WithMetadata(map[string]any{
					column: value,
				})
		}
		return nil, err
	}

	return record, nil
}

// Register persists a new user. A unique constraint rejection on the email
// column is surfaced as ErrUserExists so concurrent registrations for the
// same email resolve cleanly instead of crashing.
func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	prepareUserDefaults(user)

	created, err := a.repo.CreateTx(ctx, a.db, user)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return created, nil
}

func (a *users) GetOrCreateByExternalID(ctx context.Context, record *User) (*User, bool, error) {
	if record == nil || record.GithubID == nil || *record.GithubID == "" {
		return nil, false, ErrNotAuthorized
	}

	externalID := *record.GithubID

	user, err := a.GetByExternalID(ctx, externalID)
	if err == nil {
		return user, false, nil
	}
	if !errors.IsNotFound(err) {
		return nil, false, err
	}

	prepareUserDefaults(record)

	created, err := a.repo.CreateTx(ctx, a.db, record)
	if err == nil {
		return created, true, nil
	}

	// Lost a first-login race: the unique index rejected our insert, so the
	// winner's row must exist now. Resolve to it.
	if isUniqueViolation(err) {
		if winner, lookupErr := a.GetByExternalID(ctx, externalID); lookupErr == nil {
			return winner, false, nil
		}
	}

	return nil, false, err
}

func (a *users) List(ctx context.Context) ([]*User, error) {
	var records []*User

	err := a.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
