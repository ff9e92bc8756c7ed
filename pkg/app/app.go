// Package app assembles the store, navigation service and its collaborators
// from a Config. Both binaries share it.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"shop-admin/pkg/cache"
	"shop-admin/pkg/config"
	"shop-admin/pkg/db"
	"shop-admin/pkg/hooks"
	"shop-admin/pkg/navigation"
	"shop-admin/pkg/store"
)

// App is a wired navigation backend.
type App struct {
	Store       store.NavStore
	Navigation  *navigation.Service
	Invalidator *cache.OverrideSource // nil when the override cache is disabled
	Watcher     Watcher               // nil unless manifest source B supports change watches
	close       func() error
}

// Watcher is implemented by manifest sources that can report changes.
type Watcher interface {
	StartWatch(ctx context.Context, onChange func())
}

// New builds an App from cfg.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	chain, err := hooks.Resolve(cfg.TreeHooks)
	if err != nil {
		return nil, err
	}
	storeOpts := []store.Option{store.WithTenantScopedOverrides(cfg.TenantScopedOverrides)}

	a := &App{close: func() error { return nil }}
	switch cfg.DB.Driver {
	case "memory":
		a.Store = store.NewMemoryStore(storeOpts...)
	case "mysql", "sqlite":
		gdb, err := db.Open(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.DB.Driver, err)
		}
		a.Store = store.NewGormStore(gdb, storeOpts...)
		a.close = func() error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.DB.Driver)
	}

	if cfg.DB.SeedCore {
		n, err := db.SeedCoreNavigation(ctx, a.Store)
		if err != nil {
			_ = a.close()
			return nil, fmt.Errorf("seed core navigation: %w", err)
		}
		if n > 0 {
			log.Info("seeded core navigation", zap.Int("items", n))
		}
	}

	var overrides navigation.OverrideSource = a.Store
	if cfg.OverrideCacheTTL > 0 {
		a.Invalidator = cache.NewOverrideSource(a.Store, cfg.OverrideCacheSize, cfg.OverrideCacheTTL, !cfg.TenantScopedOverrides)
		overrides = a.Invalidator
	}

	var sourceB navigation.ManifestSource = navigation.ManifestFunc(a.Store.ListActivePluginRegistrations)
	if cfg.ManifestB == "consul" {
		if src := store.NewConsulManifestSource(cfg.ConsulAddr, cfg.ConsulPrefix, log); src != nil {
			sourceB = src
			if w, ok := src.(Watcher); ok {
				a.Watcher = w
			}
		}
	}

	a.Navigation = navigation.NewService(navigation.Sources{
		Activation: a.Store,
		Registry:   a.Store,
		Manifests: []navigation.Manifest{
			{Name: "plugins", Source: navigation.ManifestFunc(a.Store.ListActivePluginManifests), Format: navigation.FormatDescriptor},
			{Name: "plugin_registry", Source: sourceB, Format: navigation.FormatManifest},
		},
		Overrides: overrides,
		Writer:    a.Store,
	}, chain, log)
	return a, nil
}

func (a *App) Close() error {
	return a.close()
}
