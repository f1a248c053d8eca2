package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// Storage is a mock of model.Storage.
type Storage struct {
	mock.Mock
}

func (m *Storage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	args := m.Called(ctx, key, reader, contentType)
	return args.Error(0)
}

func (m *Storage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *Storage) URL(key string) string {
	args := m.Called(key)
	return args.String(0)
}
