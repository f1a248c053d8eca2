package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avolkov/siteblog/internal/model"
)

var _ model.SiteStore = (*SiteRepository)(nil)

type SiteRepository struct {
	db *Connection
}

func NewSiteRepository(db *Connection) *SiteRepository {
	return &SiteRepository{
		db: db,
	}
}

func (r *SiteRepository) Create(ctx context.Context, site model.Site) (model.Site, error) {
	query := `INSERT INTO sites (id, name, domain, created_at, updated_at)
			  VALUES ($1, $2, $3, NOW(), NOW())
			  RETURNING id, name, domain, created_at, updated_at`

	var savedSite model.Site
	err := r.db.QueryRow(ctx, query, site.ID, site.Name, site.Domain).Scan(
		&savedSite.ID, &savedSite.Name, &savedSite.Domain, &savedSite.CreatedAt, &savedSite.UpdatedAt,
	)
	if err != nil {
		if translated := translateConstraintError(err); translated != err {
			return model.Site{}, translated
		}
		return model.Site{}, fmt.Errorf("failed to create site: %w", err)
	}

	return savedSite, nil
}

func (r *SiteRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Site, error) {
	var site model.Site
	query := `SELECT id, name, domain, created_at, updated_at
			  FROM sites WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&site.ID, &site.Name, &site.Domain, &site.CreatedAt, &site.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Site{}, model.ErrNotFound
		}
		return model.Site{}, fmt.Errorf("failed to get site by id: %w", err)
	}

	return site, nil
}

func (r *SiteRepository) MatchEmailDomain(ctx context.Context, email string, siteID uuid.UUID) (model.Site, error) {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return model.Site{}, model.ErrNotFound
	}
	domain := strings.ToLower(email[at+1:])

	var site model.Site
	query := `SELECT id, name, domain, created_at, updated_at
			  FROM sites WHERE id = $1 AND lower(domain) = $2`

	err := r.db.QueryRow(ctx, query, siteID, domain).Scan(
		&site.ID, &site.Name, &site.Domain, &site.CreatedAt, &site.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Site{}, model.ErrNotFound
		}
		return model.Site{}, fmt.Errorf("failed to match site against email domain: %w", err)
	}

	return site, nil
}
