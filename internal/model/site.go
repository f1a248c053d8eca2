package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SiteStore defines persistence operations for sites.
type SiteStore interface {
	Create(ctx context.Context, site Site) (Site, error)
	GetByID(ctx context.Context, id uuid.UUID) (Site, error)
	// MatchEmailDomain resolves the site identified by siteID only when the
	// domain part of email equals the site's registered domain. A site that
	// exists but does not match is reported as ErrNotFound.
	MatchEmailDomain(ctx context.Context, email string, siteID uuid.UUID) (Site, error)
}

// Site is a tenant of the platform. Registration requires the registering
// email to belong to the site's domain.
type Site struct {
	ID        uuid.UUID
	Name      string
	Domain    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
