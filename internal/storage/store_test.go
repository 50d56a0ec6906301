package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arrdeck/arrdeck/internal/storage"
	"github.com/arrdeck/arrdeck/pkg/config"
	"github.com/arrdeck/arrdeck/pkg/encryption"
	"github.com/arrdeck/arrdeck/pkg/logger"
	"github.com/arrdeck/arrdeck/pkg/models"
)

func newStore(t *testing.T) (*storage.Store, *gorm.DB) {
	t.Helper()

	db, cleanup, err := storage.Open(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "arrdeck.db"),
	}, logger.NewNoop())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	encryptor, err := encryption.NewEncryptor("store-test-key")
	require.NoError(t, err)
	return storage.NewStore(db, encryptor), db
}

func sonarrConfig(id string) models.ServiceConfig {
	return models.ServiceConfig{
		ID:      id,
		Name:    "Living Room Sonarr",
		Type:    models.ServiceTypeSonarr,
		URL:     "http://sonarr:8989",
		APIKey:  "super-secret-key",
		Enabled: true,
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	store, db := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sonarrConfig("tv-1")))

	got, err := store.Get(ctx, "tv-1")
	require.NoError(t, err)
	assert.Equal(t, "Living Room Sonarr", got.Name)
	assert.Equal(t, models.ServiceTypeSonarr, got.Type)
	assert.Equal(t, "super-secret-key", got.APIKey)
	assert.True(t, got.Enabled)
	assert.False(t, got.CreatedAt.IsZero())

	// The key must not be readable from the raw row.
	var rawKey string
	require.NoError(t, db.Table("service_configs").
		Where("id = ?", "tv-1").
		Pluck("api_key", &rawKey).Error)
	assert.NotEmpty(t, rawKey)
	assert.NotEqual(t, "super-secret-key", rawKey)
	assert.NotContains(t, rawKey, "super-secret")
}

func TestGetUnknownID(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSaveUpserts(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	cfg := sonarrConfig("tv-1")
	require.NoError(t, store.Save(ctx, cfg))

	saved, err := store.Get(ctx, "tv-1")
	require.NoError(t, err)

	updated := saved
	updated.Name = "Renamed"
	updated.Enabled = false
	updated.APIKey = "rotated-key"
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.Save(ctx, updated))

	got, err := store.Get(ctx, "tv-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "rotated-key", got.APIKey)
	assert.False(t, got.Enabled)
	// Creation time survives the update.
	assert.True(t, got.CreatedAt.Equal(saved.CreatedAt), "CreatedAt changed on upsert")

	configs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, configs, 1)
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	missingID := sonarrConfig("")
	assert.Error(t, store.Save(ctx, missingID))

	badType := sonarrConfig("tv-1")
	badType.Type = "plex"
	assert.Error(t, store.Save(ctx, badType))

	noURL := sonarrConfig("tv-1")
	noURL.URL = ""
	assert.Error(t, store.Save(ctx, noURL))
}

func TestListOrdersByCreation(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	first := sonarrConfig("tv-1")
	first.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	second := sonarrConfig("mv-1")
	second.Type = models.ServiceTypeRadarr
	second.URL = "http://radarr:7878"
	second.CreatedAt = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, second))
	require.NoError(t, store.Save(ctx, first))

	configs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "tv-1", configs[0].ID)
	assert.Equal(t, "mv-1", configs[1].ID)
}

func TestRemoveIsIdempotent(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sonarrConfig("tv-1")))
	require.NoError(t, store.Remove(ctx, "tv-1"))
	require.NoError(t, store.Remove(ctx, "tv-1"))

	_, err := store.Get(ctx, "tv-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestClearAll(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sonarrConfig("tv-1")))
	cfg := sonarrConfig("tv-2")
	require.NoError(t, store.Save(ctx, cfg))

	require.NoError(t, store.ClearAll(ctx))

	configs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, configs)
}
