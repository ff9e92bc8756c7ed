package store

import (
	"context"
	"errors"

	"shop-admin/pkg/model"
	"shop-admin/pkg/navigation"
)

var ErrNotFound = errors.New("not found")

// NavStore is the persistence layer behind the navigation service and the
// admin API. It implements every collaborator the tree builder reads from;
// the two manifest sources are exposed as separate methods.
type NavStore interface {
	navigation.PluginActivationSource
	navigation.RegistrySource
	navigation.OverrideSource
	navigation.RegistryWriter

	// ListActivePluginManifests reads plugins whose bare descriptor is stored alongside them.
	ListActivePluginManifests(ctx context.Context) ([]model.PluginNavigationRecord, error)
	// ListActivePluginRegistrations reads dynamically registered plugins whose full manifest embeds navigation.
	ListActivePluginRegistrations(ctx context.Context) ([]model.PluginNavigationRecord, error)

	ListNavigationItems(ctx context.Context) ([]model.NavigationItem, error)
	UpsertOverride(ctx context.Context, o model.NavigationOverride) (model.NavigationOverride, error)
	DeleteOverride(ctx context.Context, tenantID, navItemKey string) error
	ListTenantOverrides(ctx context.Context, tenantID string) ([]model.NavigationOverride, error)

	UpsertPlugin(ctx context.Context, p model.Plugin) error
	UpsertPluginRegistration(ctx context.Context, r model.PluginRegistration) error
	SetTenantPlugin(ctx context.Context, tp model.TenantPlugin) error

	AppendAudit(ctx context.Context, e model.AuditEntry) error
	ListAudit(ctx context.Context, limit int) ([]model.AuditEntry, error)

	CountUsers(ctx context.Context) (int64, error)
	CreateUser(ctx context.Context, u *model.User) error
	FindUser(ctx context.Context, username string) (model.User, error)

	Ping(ctx context.Context) error
}

// Option configures a store.
type Option func(*options)

type options struct {
	tenantScopedOverrides bool
}

// WithTenantScopedOverrides makes ListOverrides filter by tenant. Without it
// overrides are read across all tenants.
func WithTenantScopedOverrides(on bool) Option {
	return func(o *options) { o.tenantScopedOverrides = on }
}

func applyOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
