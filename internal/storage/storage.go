// Package storage is the blob store behind evidence photos, vehicle
// photos and mechanic verification documents: store bytes, get a URL back.
package storage

import (
	"context"
	"fmt"

	"roadcall/internal/config"
)

// Store is the blob storage contract.
type Store interface {
	// Upload stores data at path and returns a publicly resolvable URL.
	Upload(ctx context.Context, path string, data []byte) (string, error)
}

// New builds the configured driver.
func New(cfg config.Config) (Store, error) {
	switch cfg.BlobDriver {
	case "local", "":
		return NewLocal(cfg.LocalBlobDir, cfg.LocalBlobURL), nil
	case "s3":
		return NewS3(cfg)
	default:
		return nil, fmt.Errorf("storage: unsupported BLOB_DRIVER %q (supported: local, s3)", cfg.BlobDriver)
	}
}
