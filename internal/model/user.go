package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// User represents a registered member of a site. A user carries no secret
// material itself; credentials live in passports.
type User struct {
	ID        uuid.UUID
	Email     string
	Username  string
	FirstName string
	LastName  string
	SiteID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
