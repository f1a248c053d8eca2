package model

import (
	"context"
	"io"
)

// Storage stores post image objects in an object store. URL returns the
// public address of a stored object and must be stable for a given key.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
