package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-admin/pkg/config"
	"shop-admin/pkg/db"
	"shop-admin/pkg/model"
	"shop-admin/pkg/store"
)

func TestSeedCoreNavigation_OnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	n, err := db.SeedCoreNavigation(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, len(db.CoreNavigation), n)

	items, err := s.ListNavigationItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, len(db.CoreNavigation))
	for _, it := range items {
		assert.True(t, it.IsCore, it.Key)
		assert.True(t, it.IsVisible, it.Key)
		assert.Equal(t, "core", it.Category)
	}

	n, err = db.SeedCoreNavigation(ctx, s)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSeedCoreNavigation_SkipsPopulatedRegistry(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, s.UpsertNavigationItem(ctx, model.NavigationItem{Key: "custom", Label: "Custom", IsCore: true, IsVisible: true}))

	n, err := db.SeedCoreNavigation(ctx, s)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpen_SQLiteMigrates(t *testing.T) {
	gdb, err := db.Open(config.Database{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "nav.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	for _, m := range store.Models() {
		assert.True(t, gdb.Migrator().HasTable(m), "%T", m)
	}

	s := store.NewGormStore(gdb)
	n, err := db.SeedCoreNavigation(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, len(db.CoreNavigation), n)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := db.Open(config.Database{Driver: "postgres"})
	assert.ErrorContains(t, err, "unsupported sql driver")
}
