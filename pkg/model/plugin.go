package model

import "time"

// Plugin status values.
const (
	PluginActive   = "active"
	PluginInactive = "inactive"
)

// Plugin is a marketplace plugin. AdminNavigation holds the bare navigation
// descriptor as JSON.
type Plugin struct {
	ID              string    `gorm:"primaryKey;size:128" json:"id"`
	Name            string    `gorm:"size:255" json:"name"`
	Version         string    `gorm:"size:32" json:"version"`
	Status          string    `gorm:"size:16;index" json:"status"`
	AdminNavigation string    `gorm:"type:text" json:"adminNavigation,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (Plugin) TableName() string {
	return "plugins"
}

// PluginRegistration is a plugin registered through the dynamic registry.
// Manifest is the full manifest JSON; navigation lives under "adminNavigation".
type PluginRegistration struct {
	PluginID  string    `gorm:"primaryKey;size:128" json:"pluginId"`
	Name      string    `gorm:"size:255" json:"name"`
	Status    string    `gorm:"size:16;index" json:"status"`
	Manifest  string    `gorm:"type:text" json:"manifest,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (PluginRegistration) TableName() string {
	return "plugin_registry"
}

// TenantPlugin records a plugin installed in a tenant's store.
type TenantPlugin struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TenantID    string    `gorm:"size:64;not null;uniqueIndex:idx_tenant_plugin" json:"tenantId"`
	PluginID    string    `gorm:"size:128;not null;uniqueIndex:idx_tenant_plugin" json:"pluginId"`
	IsInstalled bool      `gorm:"not null" json:"isInstalled"`
	IsEnabled   bool      `gorm:"not null" json:"isEnabled"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (TenantPlugin) TableName() string {
	return "tenant_plugins"
}

// PluginNavigationRecord is what a manifest source hands to the tree builder:
// the plugin ID and its navigation descriptor, still unparsed.
type PluginNavigationRecord struct {
	PluginID   string
	Descriptor string
}
