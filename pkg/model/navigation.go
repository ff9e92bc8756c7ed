package model

import "time"

// Category assigned to registry rows written for plugins.
const CategoryPlugins = "plugins"

// NavigationItem is a row of the admin navigation registry. Core items are
// owned by the platform; plugin items carry the owning plugin's ID.
type NavigationItem struct {
	Key           string    `gorm:"column:nav_key;primaryKey;size:128" json:"key"`
	Label         string    `gorm:"size:255;not null" json:"label"`
	Icon          string    `gorm:"size:64" json:"icon,omitempty"`
	Route         string    `gorm:"size:255" json:"route,omitempty"`
	ParentKey     string    `gorm:"size:128;index" json:"parentKey,omitempty"`
	OrderPosition float64   `gorm:"index;not null;default:0" json:"orderPosition"` // fractional so items can be slotted between siblings
	IsCore        bool      `gorm:"not null" json:"isCore"`
	IsVisible     bool      `gorm:"not null" json:"isVisible"`
	PluginID      string    `gorm:"size:128;index" json:"pluginId,omitempty"`
	Category      string    `gorm:"size:64" json:"category,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (NavigationItem) TableName() string {
	return "admin_navigation_registry"
}

// PluginNavigationDescriptor is the navigation block embedded in a plugin manifest.
type PluginNavigationDescriptor struct {
	Enabled       bool    `json:"enabled"`
	Label         string  `json:"label,omitempty"`
	Icon          string  `json:"icon,omitempty"`
	Route         string  `json:"route,omitempty"`
	ParentKey     string  `json:"parentKey,omitempty"`
	Order         float64 `json:"order,omitempty"`
	RelativeToKey string  `json:"relativeToKey,omitempty"` // only read on upsert
	Position      string  `json:"position,omitempty"`      // before/after, only read on upsert
}

// NavigationOverride customizes a registry item for a tenant. Nil fields fall
// back to the registry value.
type NavigationOverride struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TenantID    string    `gorm:"size:64;not null;uniqueIndex:idx_nav_override_tenant_key" json:"tenantId"`
	NavItemKey  string    `gorm:"size:128;not null;uniqueIndex:idx_nav_override_tenant_key" json:"navItemKey"`
	CustomLabel *string   `gorm:"size:255" json:"customLabel,omitempty"`
	CustomIcon  *string   `gorm:"size:64" json:"customIcon,omitempty"`
	CustomOrder *float64  `json:"customOrder,omitempty"`
	ParentKey   *string   `gorm:"size:128" json:"parentKey,omitempty"`
	IsEnabled   *bool     `json:"isEnabled,omitempty"`
	BadgeText   *string   `gorm:"size:64" json:"badgeText,omitempty"`
	BadgeColor  *string   `gorm:"size:32" json:"badgeColor,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (NavigationOverride) TableName() string {
	return "admin_navigation_config"
}

// Enabled reports the effective enabled flag (default true).
func (o NavigationOverride) Enabled() bool {
	return o.IsEnabled == nil || *o.IsEnabled
}
