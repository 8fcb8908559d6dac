package storage

import (
	"context"
	"fmt"
	"io"
)

const (
	BackendLocal    = "local"
	BackendS3       = "s3"
	BackendSupabase = "supabase"
)

// Storage is a blob backend for archived uploads.
type Storage interface {
	// Put stores data at the given key, replacing any existing object
	Put(ctx context.Context, key string, data io.Reader) error

	// Exists checks if an object exists at the given key
	Exists(ctx context.Context, key string) (bool, error)

	// Close cleans up any resources
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend   string
	LocalPath string
	S3        S3Options
	Supabase  SupabaseOptions
}

// New creates a storage backend based on opts.Backend
func New(opts Options) (Storage, error) {
	switch opts.Backend {
	case BackendLocal, "":
		return NewLocalStorage(opts.LocalPath)
	case BackendS3:
		return NewS3Storage(opts.S3)
	case BackendSupabase:
		return NewSupabaseStorage(opts.Supabase), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", opts.Backend)
	}
}
