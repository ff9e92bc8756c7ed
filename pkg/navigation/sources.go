package navigation

import (
	"context"

	"shop-admin/pkg/model"
)

// PluginActivationSource lists the plugins installed and enabled for a tenant.
type PluginActivationSource interface {
	ListInstalledEnabledPlugins(ctx context.Context, tenantID string) ([]string, error)
}

// RegistrySource returns visible registry items that are core or owned by one
// of the given plugins.
type RegistrySource interface {
	ListVisibleNavigationItems(ctx context.Context, pluginIDs []string) ([]model.NavigationItem, error)
}

// ManifestSource returns active plugins that carry a navigation descriptor.
type ManifestSource interface {
	ListActivePluginsWithNavigation(ctx context.Context) ([]model.PluginNavigationRecord, error)
}

// ManifestFunc adapts a plain function to ManifestSource.
type ManifestFunc func(ctx context.Context) ([]model.PluginNavigationRecord, error)

func (f ManifestFunc) ListActivePluginsWithNavigation(ctx context.Context) ([]model.PluginNavigationRecord, error) {
	return f(ctx)
}

// OverrideSource returns tenant navigation overrides.
type OverrideSource interface {
	ListOverrides(ctx context.Context, tenantID string) ([]model.NavigationOverride, error)
}

// RegistryWriter mutates the navigation registry.
type RegistryWriter interface {
	GetNavigationItem(ctx context.Context, key string) (model.NavigationItem, bool, error)
	UpsertNavigationItem(ctx context.Context, item model.NavigationItem) error
	DeleteNavigationItem(ctx context.Context, key string) error
}

// Manifest names a manifest source for logging and error reporting and says
// how its records are encoded.
type Manifest struct {
	Name   string
	Source ManifestSource
	Format Format
}
