package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/goaltrack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDB(filepath.Join(t.TempDir(), "migrate-roundtrip.db"), time.Second)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, MigrateUp(ctx, db), "first migrate up")
	version, err := SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	require.NoError(t, MigrateDown(ctx, db), "migrate down")
	version, err = SchemaVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	require.NoError(t, MigrateUp(ctx, db), "second migrate up")

	repo, err := NewSQLiteRepository(db)
	require.NoError(t, err)

	id, err := repo.CreateSegment(ctx, model.Segment{
		Name:      "Roundtrip",
		Color:     model.DefaultSegmentColor,
		CreatedAt: time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	got, err := repo.GetSegment(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Roundtrip", got.Name)
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDB(filepath.Join(t.TempDir(), "migrate-twice.db"), time.Second)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, MigrateUp(ctx, db))
	require.NoError(t, MigrateUp(ctx, db))
}
