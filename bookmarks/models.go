package bookmarks

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Bookmark is a saved link owned by a single user
type Bookmark struct {
	bun.BaseModel `bun:"table:bookmarks,alias:bmk" json:"-"`

	ID        uuid.UUID  `bun:"id,pk,nullzero" json:"_id"`
	Title     string     `bun:"title,notnull" json:"title"`
	URL       string     `bun:"url,notnull" json:"url"`
	UserID    uuid.UUID  `bun:"user_id,notnull" json:"user_id"`
	CreatedAt *time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at,omitempty"`
}

func prepareBookmarkDefaults(record *Bookmark) {
	if record == nil {
		return
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}
