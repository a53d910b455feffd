package storage

import (
	"context"
	"io"
)

// Storage defines the interface for photo storage backends
type Storage interface {
	// Put stores a file at the given key
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get retrieves a file by key
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file by key. Returns nil if the file doesn't exist.
	Delete(ctx context.Context, key string) error

	// Exists checks whether a file exists
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL for a key
	GetURL(key string) string
}

// Config holds storage backend configuration
type Config struct {
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
}
