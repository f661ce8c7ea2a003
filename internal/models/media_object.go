package models

import (
	"time"

	"gorm.io/gorm"
)

// MediaObject indexes one stored media payload in the binary tier. The
// payload itself lives in the blob backend; this row only carries the
// lookup metadata. One object per project.
type MediaObject struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectID   string `gorm:"uniqueIndex;not null;size:36" json:"project_id"`
	FileName    string `gorm:"not null;size:255" json:"file_name"`
	ContentType string `gorm:"size:100" json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`

	// StoragePath is the blob backend path, relative to its base directory.
	StoragePath string `gorm:"not null;size:500" json:"storage_path"`

	LastUsedAt time.Time `json:"last_used_at"`
}

// TableName returns the table name for the MediaObject model.
func (MediaObject) TableName() string {
	return "media_objects"
}

// BeforeCreate hook to set timestamps.
func (m *MediaObject) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	m.LastUsedAt = now
	return nil
}

// BeforeUpdate hook to update the timestamp.
func (m *MediaObject) BeforeUpdate(tx *gorm.DB) error {
	m.UpdatedAt = time.Now()
	return nil
}
