package store

import (
	"context"
	"testing"

	"github.com/lingloop/player-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestKV(t *testing.T) *KV {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.MetaRecord{}))
	return NewKV(db)
}

func TestKV_MissingKeyIsSoftMiss(t *testing.T) {
	kv := newTestKV(t)

	value, err := kv.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestKV_PutGetRoundTrip(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, "projects", []byte(`[{"id":"p1"}]`)))

	value, err := kv.Get(ctx, "projects")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p1"}]`, string(value))
}

func TestKV_PutReplacesWholeValue(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, "groups", []byte(`[1]`)))
	require.NoError(t, kv.Put(ctx, "groups", []byte(`[1,2]`)))

	value, err := kv.Get(ctx, "groups")
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", string(value))
}

func TestKV_Delete(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Put(ctx, "projects", []byte(`[]`)))
	require.NoError(t, kv.Delete(ctx, "projects"))

	value, err := kv.Get(ctx, "projects")
	require.NoError(t, err)
	assert.Nil(t, value)

	// Deleting again is not an error.
	assert.NoError(t, kv.Delete(ctx, "projects"))
}
