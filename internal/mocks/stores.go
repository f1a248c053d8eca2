// Package mocks provides testify mocks for the store and manager
// interfaces defined in internal/model.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/avolkov/siteblog/internal/model"
)

// UserStore is a mock of model.UserStore.
type UserStore struct {
	mock.Mock
}

func (m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// PassportStore is a mock of model.PassportStore.
type PassportStore struct {
	mock.Mock
}

func (m *PassportStore) GetByUserAndProtocol(ctx context.Context, userID uuid.UUID, protocol string) (model.Passport, error) {
	args := m.Called(ctx, userID, protocol)
	return args.Get(0).(model.Passport), args.Error(1)
}

func (m *PassportStore) Create(ctx context.Context, passport model.Passport) (model.Passport, error) {
	args := m.Called(ctx, passport)
	return args.Get(0).(model.Passport), args.Error(1)
}

func (m *PassportStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// SiteStore is a mock of model.SiteStore.
type SiteStore struct {
	mock.Mock
}

func (m *SiteStore) Create(ctx context.Context, site model.Site) (model.Site, error) {
	args := m.Called(ctx, site)
	return args.Get(0).(model.Site), args.Error(1)
}

func (m *SiteStore) GetByID(ctx context.Context, id uuid.UUID) (model.Site, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Site), args.Error(1)
}

func (m *SiteStore) MatchEmailDomain(ctx context.Context, email string, siteID uuid.UUID) (model.Site, error) {
	args := m.Called(ctx, email, siteID)
	return args.Get(0).(model.Site), args.Error(1)
}

// PostStore is a mock of model.PostStore.
type PostStore struct {
	mock.Mock
}

func (m *PostStore) Create(ctx context.Context, post model.Post) (model.Post, error) {
	args := m.Called(ctx, post)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *PostStore) GetByID(ctx context.Context, id uuid.UUID) (model.Post, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *PostStore) ListBySite(ctx context.Context, siteID uuid.UUID) ([]model.Post, error) {
	args := m.Called(ctx, siteID)
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *PostStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]model.Post, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *PostStore) Update(ctx context.Context, post model.Post) (model.Post, error) {
	args := m.Called(ctx, post)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// RefreshTokenStore is a mock of model.RefreshTokenStore.
type RefreshTokenStore struct {
	mock.Mock
}

func (m *RefreshTokenStore) Create(ctx context.Context, token model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenStore) GetByJTI(ctx context.Context, jti string) (model.RefreshToken, error) {
	args := m.Called(ctx, jti)
	return args.Get(0).(model.RefreshToken), args.Error(1)
}

func (m *RefreshTokenStore) RevokeByJTI(ctx context.Context, jti string) error {
	args := m.Called(ctx, jti)
	return args.Error(0)
}

func (m *RefreshTokenStore) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// TokenManager is a mock of model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateAccessToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) GenerateRefreshToken(userID uuid.UUID) (string, string, error) {
	args := m.Called(userID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *TokenManager) ParseAccessToken(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *TokenManager) ParseRefreshToken(token string) (uuid.UUID, string, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}
