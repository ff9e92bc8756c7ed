package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-admin/pkg/model"
)

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.PluginNavigationDescriptor
	}{
		{
			name: "bare descriptor",
			raw:  `{"enabled":true,"label":"Reviews","parentKey":"products","order":5}`,
			want: model.PluginNavigationDescriptor{Enabled: true, Label: "Reviews", ParentKey: "products", Order: 5},
		},
		{
			name: "null",
			raw:  `null`,
			want: model.PluginNavigationDescriptor{},
		},
		{
			name: "explicitly disabled",
			raw:  `{"enabled":false,"label":"Hidden"}`,
			want: model.PluginNavigationDescriptor{Label: "Hidden"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDescriptor(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseManifest(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.PluginNavigationDescriptor
	}{
		{
			name: "navigation block",
			raw:  `{"name":"reviews","version":"1.0.0","adminNavigation":{"enabled":true,"label":"Reviews","route":"/admin/reviews"}}`,
			want: model.PluginNavigationDescriptor{Enabled: true, Label: "Reviews", Route: "/admin/reviews"},
		},
		{
			name: "null navigation",
			raw:  `{"name":"reviews","adminNavigation":null}`,
			want: model.PluginNavigationDescriptor{},
		},
		{
			name: "no navigation",
			raw:  `{"name":"reviews","version":"1.0.0"}`,
			want: model.PluginNavigationDescriptor{},
		},
		{
			name: "top-level enabled flag is not navigation",
			raw:  `{"name":"SEO tools","version":"1.0.0","enabled":true,"label":"SEO"}`,
			want: model.PluginNavigationDescriptor{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseManifest(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_Parse(t *testing.T) {
	raw := `{"enabled":true,"label":"Reviews"}`

	d, err := FormatDescriptor.Parse(raw)
	require.NoError(t, err)
	assert.True(t, d.Enabled)

	d, err = FormatManifest.Parse(raw)
	require.NoError(t, err)
	assert.False(t, d.Enabled)
}

func TestParse_Malformed(t *testing.T) {
	for _, raw := range []string{`{not json`, `[1,2]`, `"text"`} {
		_, err := ParseDescriptor(raw)
		assert.Error(t, err, raw)
		_, err = ParseManifest(raw)
		assert.Error(t, err, raw)
	}
	_, err := ParseManifest(`{"adminNavigation":"x"}`)
	assert.Error(t, err)
}

func TestSynthesize(t *testing.T) {
	item := Synthesize("p1", model.PluginNavigationDescriptor{
		Enabled: true, Label: "Reviews", Icon: "star", Route: "/admin/reviews", ParentKey: "products", Order: 5,
	})

	assert.Equal(t, model.NavigationItem{
		Key:           "plugin-p1",
		Label:         "Reviews",
		Icon:          "star",
		Route:         "/admin/reviews",
		ParentKey:     "products",
		OrderPosition: 5,
		IsCore:        false,
		IsVisible:     true,
		PluginID:      "p1",
		Category:      model.CategoryPlugins,
	}, item)
}
