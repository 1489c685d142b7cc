package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/storesync/migrations"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add sync checkpoints", "add_sync_checkpoints"},
		{"Add-Order-Items", "add_order_items"},
		{"ADD__REMOTE__ID", "add_remote_id"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC)

	mf, err := CreateMigration(dir, "Add variation images", "Store image urls per variation", now)
	require.NoError(t, err)

	assert.Equal(t, "20240601083000", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20240601083000_add_variation_images.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "20240601083000_add_variation_images.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(up), "-- Migration: add_variation_images\n"))
	assert.Contains(t, string(up), "Store image urls per variation")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	t.Run("same version twice is refused", func(t *testing.T) {
		_, err := CreateMigration(dir, "add variation images", "", now)
		assert.Error(t, err)
	})

	t.Run("unusable name", func(t *testing.T) {
		_, err := CreateMigration(dir, "???", "", now)
		assert.ErrorIs(t, err, ErrInvalidMigrationName)
	})
}

func TestListMigrations(t *testing.T) {
	t.Run("sorted up migrations only", func(t *testing.T) {
		fsys := fstest.MapFS{
			"20240102000000_b.up.sql":   {},
			"20240102000000_b.down.sql": {},
			"20240101000000_a.up.sql":   {},
			"20240101000000_a.down.sql": {},
			"README.md":                 {},
		}
		got, err := ListMigrations(fsys)
		require.NoError(t, err)
		assert.Equal(t, []string{"20240101000000_a", "20240102000000_b"}, got)
	})

	t.Run("missing directory", func(t *testing.T) {
		got, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("embedded schema", func(t *testing.T) {
		got, err := ListMigrations(migrations.FS)
		require.NoError(t, err)
		require.Len(t, got, 5)
		assert.Equal(t, "20240501120000_create_sync_checkpoints", got[0])
		assert.Equal(t, "20240501120300_create_orders", got[3])
		assert.Equal(t, "20240501120400_create_variation_attributes", got[4])
	})
}
