package mediastore

import (
	"context"
	"io"

	"github.com/lingloop/player-api/internal/models"
)

// Service defines the binary media tier: one blob per project, stored apart
// from the metadata collections so large payloads never hit the metadata
// store. Absence of a blob is a normal state (project created before upload,
// or storage denied), not an error.
type Service interface {
	// Put stores the media payload for a project, replacing any previous
	// payload.
	Put(ctx context.Context, projectID string, data io.Reader, fileName, contentType string) (*models.MediaObject, error)

	// Get opens the stored payload. A missing payload returns ErrNoMedia.
	Get(ctx context.Context, projectID string) (io.ReadCloser, *models.MediaObject, error)

	// Stat returns the payload metadata without opening the blob. A missing
	// payload returns ErrNoMedia.
	Stat(ctx context.Context, projectID string) (*models.MediaObject, error)

	// Delete removes the payload and its index row. Deleting an absent
	// payload is not an error.
	Delete(ctx context.Context, projectID string) error
}

// Repository defines persistence for the blob index rows.
type Repository interface {
	// Upsert inserts or replaces the index row for a project.
	Upsert(ctx context.Context, object *models.MediaObject) error

	// GetByProjectID retrieves the index row for a project, or nil when
	// absent.
	GetByProjectID(ctx context.Context, projectID string) (*models.MediaObject, error)

	// Delete removes the index row for a project.
	Delete(ctx context.Context, projectID string) error
}

// StorageBackend defines the blob file operations.
type StorageBackend interface {
	// Save writes data to storage under the given relative path and
	// returns the byte count.
	Save(ctx context.Context, data io.Reader, path string) (int64, error)

	// Load opens a blob for reading.
	Load(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, path string) error

	// Exists checks whether a blob is present.
	Exists(ctx context.Context, path string) (bool, error)
}
