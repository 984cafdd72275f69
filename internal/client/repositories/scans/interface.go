package scans

import (
	"context"

	"github.com/riceguard/riceguard/internal/client/models"
)

// Repository is the local cache of scan history, used when the server
// cannot be reached. Implementations are backed by the client's SQLite
// database.
type Repository interface {
	// Upsert inserts or refreshes one cached scan by id.
	Upsert(ctx context.Context, item *models.ScanItem) error

	// GetAll returns every cached scan, newest first.
	GetAll(ctx context.Context) ([]models.ScanItem, error)

	// DeleteByID removes one cached scan; removing an absent id is not an
	// error.
	DeleteByID(ctx context.Context, id string) error

	// DeleteAll empties the cache.
	DeleteAll(ctx context.Context) error
}
