package mediastore

import (
	"context"
	"errors"

	"github.com/lingloop/player-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RepositoryImpl implements the Repository interface using GORM
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new media object repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// Upsert inserts or replaces the index row for a project
func (r *RepositoryImpl) Upsert(ctx context.Context, object *models.MediaObject) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"file_name", "content_type", "size_bytes", "storage_path", "updated_at", "last_used_at"}),
		}).
		Create(object).Error
}

// GetByProjectID retrieves the index row for a project, nil when absent
func (r *RepositoryImpl) GetByProjectID(ctx context.Context, projectID string) (*models.MediaObject, error) {
	var object models.MediaObject
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&object).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &object, nil
}

// Delete removes the index row for a project
func (r *RepositoryImpl) Delete(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&models.MediaObject{}).Error
}
