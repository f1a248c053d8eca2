package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PostStore defines persistence operations for posts. Listings are ordered
// by creation time ascending.
type PostStore interface {
	Create(ctx context.Context, post Post) (Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (Post, error)
	ListBySite(ctx context.Context, siteID uuid.UUID) ([]Post, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]Post, error)
	Update(ctx context.Context, post Post) (Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Post is a blog entry. AuthorID is the ownership attribute: mutations are
// allowed only to the author. Images holds the URL of an attached image
// object, empty when none is attached.
type Post struct {
	ID        uuid.UUID
	Title     string
	Content   string
	Images    string
	AuthorID  uuid.UUID
	SiteID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}
