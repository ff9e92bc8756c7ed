package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-admin/pkg/db"
	"shop-admin/pkg/model"
	"shop-admin/pkg/store"
)

type factory func(t *testing.T, opts ...store.Option) store.NavStore

func backends() map[string]factory {
	return map[string]factory{
		"memory": func(t *testing.T, opts ...store.Option) store.NavStore {
			return store.NewMemoryStore(opts...)
		},
		"sqlite": func(t *testing.T, opts ...store.Option) store.NavStore {
			gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "nav.db"))
			require.NoError(t, err)
			require.NoError(t, db.Migrate(gdb))
			t.Cleanup(func() {
				if sqlDB, err := gdb.DB(); err == nil {
					_ = sqlDB.Close()
				}
			})
			return store.NewGormStore(gdb, opts...)
		},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, newStore factory)) {
	for name, f := range backends() {
		t.Run(name, func(t *testing.T) { fn(t, f) })
	}
}

func item(key string, order float64, core bool, pluginID string) model.NavigationItem {
	return model.NavigationItem{Key: key, Label: key, OrderPosition: order, IsCore: core, IsVisible: true, PluginID: pluginID}
}

func itemKeys(items []model.NavigationItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Key)
	}
	return out
}

func TestStore_VisibleItemsAreCoreOrActivePlugin(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t)
		hidden := item("hidden", 0.5, true, "")
		hidden.IsVisible = false
		for _, it := range []model.NavigationItem{
			item("settings", 7, true, ""),
			item("dashboard", 1, true, ""),
			item("plugin-p1", 3, false, "p1"),
			item("plugin-p2", 4, false, "p2"),
			hidden,
		} {
			require.NoError(t, s.UpsertNavigationItem(ctx, it))
		}

		got, err := s.ListVisibleNavigationItems(ctx, []string{"p1"})
		require.NoError(t, err)
		assert.Equal(t, []string{"dashboard", "plugin-p1", "settings"}, itemKeys(got))

		got, err = s.ListVisibleNavigationItems(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"dashboard", "settings"}, itemKeys(got))

		all, err := s.ListNavigationItems(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 5)
	})
}

func TestStore_NavigationItemUpsertAndDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t)

		_, ok, err := s.GetNavigationItem(ctx, "plugin-p1")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.UpsertNavigationItem(ctx, item("plugin-p1", 3, false, "p1")))
		updated := item("plugin-p1", 1.5, false, "p1")
		updated.Label = "Reviews"
		updated.ParentKey = "products"
		require.NoError(t, s.UpsertNavigationItem(ctx, updated))

		got, ok, err := s.GetNavigationItem(ctx, "plugin-p1")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Reviews", got.Label)
		assert.Equal(t, "products", got.ParentKey)
		assert.Equal(t, 1.5, got.OrderPosition)

		all, err := s.ListNavigationItems(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		require.NoError(t, s.DeleteNavigationItem(ctx, "plugin-p1"))
		require.NoError(t, s.DeleteNavigationItem(ctx, "plugin-p1"))
		_, ok, err = s.GetNavigationItem(ctx, "plugin-p1")
		require.NoError(t, err)
		assert.False(t, ok)

		assert.Error(t, s.UpsertNavigationItem(ctx, model.NavigationItem{Label: "no key"}))
	})
}

func TestStore_TenantPlugins(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.SetTenantPlugin(ctx, model.TenantPlugin{TenantID: "t1", PluginID: "reviews", IsInstalled: true, IsEnabled: true}))
		require.NoError(t, s.SetTenantPlugin(ctx, model.TenantPlugin{TenantID: "t1", PluginID: "blog", IsInstalled: true, IsEnabled: true}))
		require.NoError(t, s.SetTenantPlugin(ctx, model.TenantPlugin{TenantID: "t1", PluginID: "seo", IsInstalled: true, IsEnabled: false}))
		require.NoError(t, s.SetTenantPlugin(ctx, model.TenantPlugin{TenantID: "t2", PluginID: "seo", IsInstalled: true, IsEnabled: true}))

		ids, err := s.ListInstalledEnabledPlugins(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, []string{"blog", "reviews"}, ids)

		require.NoError(t, s.SetTenantPlugin(ctx, model.TenantPlugin{TenantID: "t1", PluginID: "blog", IsInstalled: false, IsEnabled: true}))
		ids, err = s.ListInstalledEnabledPlugins(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, []string{"reviews"}, ids)

		ids, err = s.ListInstalledEnabledPlugins(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestStore_ManifestSources(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.UpsertPlugin(ctx, model.Plugin{ID: "reviews", Name: "Reviews", Status: model.PluginActive, AdminNavigation: `{"enabled":true}`}))
		require.NoError(t, s.UpsertPlugin(ctx, model.Plugin{ID: "blog", Name: "Blog", Status: model.PluginInactive, AdminNavigation: `{"enabled":true}`}))
		require.NoError(t, s.UpsertPlugin(ctx, model.Plugin{ID: "bare", Name: "Bare", Status: model.PluginActive}))
		require.NoError(t, s.UpsertPluginRegistration(ctx, model.PluginRegistration{PluginID: "seo", Status: model.PluginActive, Manifest: `{"adminNavigation":{"enabled":true}}`}))
		require.NoError(t, s.UpsertPluginRegistration(ctx, model.PluginRegistration{PluginID: "old", Status: model.PluginInactive, Manifest: `{}`}))

		a, err := s.ListActivePluginManifests(ctx)
		require.NoError(t, err)
		require.Len(t, a, 1)
		assert.Equal(t, model.PluginNavigationRecord{PluginID: "reviews", Descriptor: `{"enabled":true}`}, a[0])

		b, err := s.ListActivePluginRegistrations(ctx)
		require.NoError(t, err)
		require.Len(t, b, 1)
		assert.Equal(t, "seo", b[0].PluginID)

		require.NoError(t, s.UpsertPlugin(ctx, model.Plugin{ID: "reviews", Name: "Reviews", Status: model.PluginInactive, AdminNavigation: `{"enabled":true}`}))
		a, err = s.ListActivePluginManifests(ctx)
		require.NoError(t, err)
		assert.Empty(t, a)
	})
}

func TestStore_Overrides(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t)
		label, off := "Sales", false

		first, err := s.UpsertOverride(ctx, model.NavigationOverride{TenantID: "t1", NavItemKey: "orders", CustomLabel: &label})
		require.NoError(t, err)
		assert.NotZero(t, first.ID)
		_, err = s.UpsertOverride(ctx, model.NavigationOverride{TenantID: "t2", NavItemKey: "orders", IsEnabled: &off})
		require.NoError(t, err)

		second, err := s.UpsertOverride(ctx, model.NavigationOverride{TenantID: "t1", NavItemKey: "orders", IsEnabled: &off})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Nil(t, second.CustomLabel)
		require.NotNil(t, second.IsEnabled)
		assert.False(t, *second.IsEnabled)

		mine, err := s.ListTenantOverrides(ctx, "t1")
		require.NoError(t, err)
		assert.Len(t, mine, 1)

		global, err := s.ListOverrides(ctx, "t1")
		require.NoError(t, err)
		assert.Len(t, global, 2)

		require.NoError(t, s.DeleteOverride(ctx, "t1", "orders"))
		assert.ErrorIs(t, s.DeleteOverride(ctx, "t1", "orders"), store.ErrNotFound)

		_, err = s.UpsertOverride(ctx, model.NavigationOverride{TenantID: "t1"})
		assert.Error(t, err)
	})
}

func TestStore_TenantScopedOverrides(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t, store.WithTenantScopedOverrides(true))
		label := "Sales"
		_, err := s.UpsertOverride(ctx, model.NavigationOverride{TenantID: "t1", NavItemKey: "orders", CustomLabel: &label})
		require.NoError(t, err)
		_, err = s.UpsertOverride(ctx, model.NavigationOverride{TenantID: "t2", NavItemKey: "customers", CustomLabel: &label})
		require.NoError(t, err)

		got, err := s.ListOverrides(ctx, "t1")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "orders", got[0].NavItemKey)
	})
}

func TestStore_Audit(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t)
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, id := range []string{"a", "b", "c"} {
			require.NoError(t, s.AppendAudit(ctx, model.AuditEntry{
				ID: id, Actor: "admin", Action: "override_upsert", Target: "orders",
				Timestamp: base.Add(time.Duration(i) * time.Minute),
			}))
		}

		got, err := s.ListAudit(ctx, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "b", got[0].ID)
		assert.Equal(t, "c", got[1].ID)

		all, err := s.ListAudit(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestStore_Users(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t)

		n, err := s.CountUsers(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)

		u := model.User{Username: "owner", PasswordHash: "x", IsAdmin: true}
		require.NoError(t, s.CreateUser(ctx, &u))
		assert.NotZero(t, u.ID)

		found, err := s.FindUser(ctx, "owner")
		require.NoError(t, err)
		assert.Equal(t, u.ID, found.ID)

		_, err = s.FindUser(ctx, "ghost")
		assert.ErrorIs(t, err, store.ErrNotFound)

		assert.Error(t, s.CreateUser(ctx, &model.User{Username: "owner"}))
		assert.NoError(t, s.Ping(ctx))
	})
}
