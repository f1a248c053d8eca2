package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avolkov/siteblog/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

const userColumns = `id, email, username, first_name, last_name, site_id, created_at, updated_at, deleted_at`

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + `
			  FROM users WHERE email = $1 AND deleted_at IS NULL`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (model.User, error) {
	query := `SELECT ` + userColumns + `
			  FROM users WHERE username = $1 AND deleted_at IS NULL`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + `
			  FROM users WHERE id = $1 AND deleted_at IS NULL`

	user, err := r.scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, email, username, first_name, last_name, site_id, created_at, updated_at)
			  VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NOW(), NOW())
			  RETURNING ` + userColumns

	savedUser, err := r.scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Email, user.Username, user.FirstName, user.LastName, user.SiteID,
	))
	if err != nil {
		if translated := translateConstraintError(err); translated != err {
			return model.User{}, translated
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return savedUser, nil
}

// Delete removes the user row entirely. Registration rollback depends on
// the row being gone, not soft-deleted, so the email can be reused.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	var username *string
	err := row.Scan(
		&user.ID, &user.Email, &username, &user.FirstName, &user.LastName, &user.SiteID,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	if err != nil {
		return model.User{}, err
	}
	if username != nil {
		user.Username = *username
	}
	return user, nil
}
