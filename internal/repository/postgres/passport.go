package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avolkov/siteblog/internal/model"
)

var _ model.PassportStore = (*PassportRepository)(nil)

type PassportRepository struct {
	db *Connection
}

func NewPassportRepository(db *Connection) *PassportRepository {
	return &PassportRepository{
		db: db,
	}
}

func (r *PassportRepository) GetByUserAndProtocol(ctx context.Context, userID uuid.UUID, protocol string) (model.Passport, error) {
	var passport model.Passport
	query := `SELECT id, protocol, password_hash, user_id, created_at, updated_at
			  FROM passports WHERE user_id = $1 AND protocol = $2`

	err := r.db.QueryRow(ctx, query, userID, protocol).Scan(
		&passport.ID, &passport.Protocol, &passport.PasswordHash, &passport.UserID,
		&passport.CreatedAt, &passport.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Passport{}, model.ErrNotFound
		}
		return model.Passport{}, fmt.Errorf("failed to get passport by user and protocol: %w", err)
	}

	return passport, nil
}

func (r *PassportRepository) Create(ctx context.Context, passport model.Passport) (model.Passport, error) {
	query := `INSERT INTO passports (id, protocol, password_hash, user_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, NOW(), NOW())
			  RETURNING id, protocol, password_hash, user_id, created_at, updated_at`

	var savedPassport model.Passport
	err := r.db.QueryRow(ctx, query,
		passport.ID, passport.Protocol, passport.PasswordHash, passport.UserID,
	).Scan(
		&savedPassport.ID, &savedPassport.Protocol, &savedPassport.PasswordHash,
		&savedPassport.UserID, &savedPassport.CreatedAt, &savedPassport.UpdatedAt,
	)
	if err != nil {
		if translated := translateConstraintError(err); translated != err {
			return model.Passport{}, translated
		}
		return model.Passport{}, fmt.Errorf("failed to create passport: %w", err)
	}

	return savedPassport, nil
}

func (r *PassportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM passports WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete passport: %w", err)
	}

	return nil
}
