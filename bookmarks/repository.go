package bookmarks

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Store is the persistence surface the HTTP layer depends on
type Store interface {
	Create(ctx context.Context, record *Bookmark) (*Bookmark, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Bookmark, error)
}

// Bookmarks is the bun-backed bookmark repository
type Bookmarks interface {
	repository.Repository[*Bookmark]
	Store
}

type bookmarks struct {
	repository.Repository[*Bookmark]
	db *bun.DB
}

var (
	_ Bookmarks = (*bookmarks)(nil)
	_ Store     = (*bookmarks)(nil)
)

// NewRepository creates the bun-backed Bookmarks repository
func NewRepository(db *bun.DB) Bookmarks {
	repo := repository.NewRepository[*Bookmark](db, repository.ModelHandlers[*Bookmark]{
		NewRecord: func() *Bookmark { return &Bookmark{} },
		GetID: func(b *Bookmark) uuid.UUID {
			if b == nil {
				return uuid.Nil
			}
			return b.ID
		},
		SetID: func(b *Bookmark, id uuid.UUID) {
			if b != nil {
				b.ID = id
			}
		},
		GetIdentifier: func() string {
			return "id"
		},
	})

	return &bookmarks{
		Repository: repo,
		db:         db,
	}
}

func (r *bookmarks) Create(ctx context.Context, record *Bookmark) (*Bookmark, error) {
	prepareBookmarkDefaults(record)
	return r.Repository.CreateTx(ctx, r.db, record)
}

func (r *bookmarks) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Bookmark, error) {
	var records []*Bookmark

	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", userID).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}
