package mediastore

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/lingloop/player-api/internal/models"
	apperrors "github.com/lingloop/player-api/pkg/errors"
)

// ErrNoMedia marks the soft-miss case: the project has no stored payload.
// Callers prompt the user to re-attach the file instead of failing.
var ErrNoMedia = apperrors.New(apperrors.ErrCodeMediaNotAttached, "no media stored for project")

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repo    Repository
	storage StorageBackend
}

// NewService creates a new media store service
func NewService(repo Repository, storage StorageBackend) Service {
	return &ServiceImpl{repo: repo, storage: storage}
}

// Put stores the media payload for a project, replacing any previous one.
func (s *ServiceImpl) Put(ctx context.Context, projectID string, data io.Reader, fileName, contentType string) (*models.MediaObject, error) {
	if projectID == "" {
		return nil, apperrors.ValidationError("project_id", "must not be empty")
	}

	// One blob per project, addressed by project id so replacement is a
	// plain overwrite.
	path := fmt.Sprintf("%s/media", projectID)

	size, err := s.storage.Save(ctx, data, path)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeBlobStorage, "failed to store media payload")
	}

	object := &models.MediaObject{
		ProjectID:   projectID,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   size,
		StoragePath: path,
		LastUsedAt:  time.Now(),
	}

	if err := s.repo.Upsert(ctx, object); err != nil {
		// Index row failed; remove the orphaned blob so the tiers stay
		// consistent.
		if cleanupErr := s.storage.Delete(ctx, path); cleanupErr != nil {
			log.Printf("[WARN] Failed to clean up orphaned blob %s: %v", path, cleanupErr)
		}
		return nil, apperrors.DatabaseError("upsert media object", err)
	}

	return object, nil
}

// Get opens the stored payload for a project.
func (s *ServiceImpl) Get(ctx context.Context, projectID string) (io.ReadCloser, *models.MediaObject, error) {
	object, err := s.Stat(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.storage.Load(ctx, object.StoragePath)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.ErrCodeBlobStorage, "failed to open media payload")
	}

	return reader, object, nil
}

// Stat returns the payload metadata without opening the blob.
func (s *ServiceImpl) Stat(ctx context.Context, projectID string) (*models.MediaObject, error) {
	object, err := s.repo.GetByProjectID(ctx, projectID)
	if err != nil {
		return nil, apperrors.DatabaseError("get media object", err)
	}
	if object == nil {
		return nil, ErrNoMedia
	}

	exists, err := s.storage.Exists(ctx, object.StoragePath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeBlobStorage, "failed to check media payload")
	}
	if !exists {
		// Index row without a blob: treat the same as no media so the
		// client re-attaches.
		log.Printf("[WARN] Media index row for project %s has no blob at %s", projectID, object.StoragePath)
		return nil, ErrNoMedia
	}

	return object, nil
}

// Delete removes the payload and its index row for a project.
func (s *ServiceImpl) Delete(ctx context.Context, projectID string) error {
	object, err := s.repo.GetByProjectID(ctx, projectID)
	if err != nil {
		return apperrors.DatabaseError("get media object", err)
	}
	if object == nil {
		return nil
	}

	if err := s.storage.Delete(ctx, object.StoragePath); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeBlobStorage, "failed to delete media payload")
	}

	if err := s.repo.Delete(ctx, projectID); err != nil {
		return apperrors.DatabaseError("delete media object", err)
	}

	return nil
}
