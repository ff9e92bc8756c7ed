package navigation

import (
	"encoding/json"
	"fmt"
	"strings"

	"shop-admin/pkg/model"
)

const pluginKeyPrefix = "plugin-"

// PluginKey is the registry key of a plugin's navigation item.
func PluginKey(pluginID string) string {
	return pluginKeyPrefix + pluginID
}

// Format says how a manifest source stores navigation.
type Format int

const (
	// FormatDescriptor records hold the bare navigation descriptor.
	FormatDescriptor Format = iota
	// FormatManifest records hold a full plugin manifest; navigation lives
	// under "adminNavigation" and is absent when that key is.
	FormatManifest
)

func (f Format) String() string {
	if f == FormatManifest {
		return "manifest"
	}
	return "descriptor"
}

// Parse decodes raw according to the format.
func (f Format) Parse(raw string) (model.PluginNavigationDescriptor, error) {
	if f == FormatManifest {
		return ParseManifest(raw)
	}
	return ParseDescriptor(raw)
}

// ParseDescriptor decodes a bare navigation descriptor. A JSON null yields a
// disabled descriptor.
func ParseDescriptor(raw string) (model.PluginNavigationDescriptor, error) {
	var d model.PluginNavigationDescriptor
	if strings.TrimSpace(raw) == "null" {
		return d, nil
	}
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return d, fmt.Errorf("parse navigation descriptor: %w", err)
	}
	return d, nil
}

// ParseManifest extracts the descriptor from a full plugin manifest. Top-level
// manifest fields are never read as navigation, so a manifest without
// "adminNavigation" yields a disabled descriptor.
func ParseManifest(raw string) (model.PluginNavigationDescriptor, error) {
	var m struct {
		AdminNavigation json.RawMessage `json:"adminNavigation"`
	}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return model.PluginNavigationDescriptor{}, fmt.Errorf("parse plugin manifest: %w", err)
	}
	if len(m.AdminNavigation) == 0 {
		return model.PluginNavigationDescriptor{}, nil
	}
	return ParseDescriptor(string(m.AdminNavigation))
}

// Synthesize turns an enabled descriptor into a registry-shaped item.
// Visibility is always true; it is gated only by Enabled upstream.
func Synthesize(pluginID string, d model.PluginNavigationDescriptor) model.NavigationItem {
	return model.NavigationItem{
		Key:           PluginKey(pluginID),
		Label:         d.Label,
		Icon:          d.Icon,
		Route:         d.Route,
		ParentKey:     d.ParentKey,
		OrderPosition: d.Order,
		IsCore:        false,
		IsVisible:     true,
		PluginID:      pluginID,
		Category:      model.CategoryPlugins,
	}
}
