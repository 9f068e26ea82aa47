package db

import (
	"context"
	"errors"

	"github.com/brandlens/brandlens/internal/models"
)

// Config holds database configuration
type Config struct {
	Provider string            // sqlite, mongodb
	URI      string            // Connection URI
	Database string            // Database name
	Options  map[string]string // Provider-specific options
}

// ErrNotFound is returned when a requested document or row does not exist
var ErrNotFound = errors.New("not found")

// RecordStore is the contract the primary record store exposes: write/read
// loosely-typed documents by key, subject to a maximum payload size. One
// RecordStore is scoped to one logical collection.
type RecordStore interface {
	Put(ctx context.Context, key string, doc map[string]interface{}) error
	Get(ctx context.Context, key string) (map[string]interface{}, error)
	Delete(ctx context.Context, key string) error
}

// BlobStore holds oversized field payloads offloaded from the primary store
type BlobStore interface {
	Upload(ctx context.Context, path, contentType string, data []byte) (*models.StorageReference, error)
	Download(ctx context.Context, ref *models.StorageReference) ([]byte, error)
	Delete(ctx context.Context, ref *models.StorageReference) error
}

// ResourceExhaustedError wraps a primary-store error of the transient
// "resource exhausted" class (record too large, quota pressure). The overflow
// store reacts to it with a minimal-field retry.
type ResourceExhaustedError struct {
	Err error
}

func (e *ResourceExhaustedError) Error() string {
	return "resource exhausted: " + e.Err.Error()
}

func (e *ResourceExhaustedError) Unwrap() error {
	return e.Err
}

// IsResourceExhausted reports whether err is of the resource-exhausted class
func IsResourceExhausted(err error) bool {
	var re *ResourceExhaustedError
	return errors.As(err, &re)
}

// BrandStore is the registry of tracked brands and their queries
type BrandStore interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	CreateBrand(ctx context.Context, brand *models.Brand) error
	GetBrand(ctx context.Context, id string) (*models.Brand, error)
	ListBrands(ctx context.Context, enabled *bool) ([]*models.Brand, error)
	UpdateBrand(ctx context.Context, brand *models.Brand) error
	DeleteBrand(ctx context.Context, id string) error

	CreateQuery(ctx context.Context, query *models.TrackedQuery) error
	GetQuery(ctx context.Context, id string) (*models.TrackedQuery, error)
	ListQueries(ctx context.Context, brandID string, enabled *bool) ([]*models.TrackedQuery, error)
	UpdateQuery(ctx context.Context, query *models.TrackedQuery) error
	DeleteQuery(ctx context.Context, id string) error
}
