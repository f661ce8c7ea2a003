package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/lingloop/player-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KV is the durable key-value tier backing metadata collections. Values are
// opaque JSON documents; callers own serialization and the read-modify-write
// discipline.
type KV struct {
	db *gorm.DB
}

// NewKV creates a key-value store over the given database.
func NewKV(db *gorm.DB) *KV {
	return &KV{db: db}
}

// Get returns the value stored under key. A missing key is a soft-miss: it
// returns (nil, nil), not an error.
func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var record models.MetaRecord
	err := k.db.WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return record.Value, nil
}

// Put writes value under key, replacing any previous value in a single
// statement.
func (k *KV) Put(ctx context.Context, key string, value []byte) error {
	record := models.MetaRecord{Key: key, Value: value}
	err := k.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key. Deleting a missing key is not
// an error.
func (k *KV) Delete(ctx context.Context, key string) error {
	if err := k.db.WithContext(ctx).Delete(&models.MetaRecord{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}
