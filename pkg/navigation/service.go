package navigation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shop-admin/pkg/hooks"
	"shop-admin/pkg/model"
)

const defaultPluginOrder = 100

// Sources bundles the collaborators a Service reads from and writes to.
type Sources struct {
	Activation PluginActivationSource
	Registry   RegistrySource
	Manifests  []Manifest
	Overrides  OverrideSource
	Writer     RegistryWriter
}

// Service builds tenant navigation trees. It holds no per-tenant state and is
// safe for concurrent use as long as its sources are.
type Service struct {
	src   Sources
	hooks hooks.Chain
	log   *zap.Logger
}

func NewService(src Sources, chain hooks.Chain, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{src: src, hooks: chain, log: log}
}

// BuildForTenant reads all inputs, merges them and returns the tree roots.
// The reads run concurrently; any failure aborts the build with a
// *NavigationLoadError.
func (s *Service) BuildForTenant(ctx context.Context, tenantID string) ([]*model.NavigationNode, error) {
	var (
		registry    []model.NavigationItem
		synthesized = make([][]model.NavigationItem, len(s.src.Manifests))
		overrides   []model.NavigationOverride
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := s.src.Activation.ListInstalledEnabledPlugins(gctx, tenantID)
		if err != nil {
			return loadError("plugin activation", err)
		}
		registry, err = s.src.Registry.ListVisibleNavigationItems(gctx, ids)
		if err != nil {
			return loadError("registry", err)
		}
		return nil
	})
	for i, m := range s.src.Manifests {
		i, m := i, m
		g.Go(func() error {
			records, err := m.Source.ListActivePluginsWithNavigation(gctx)
			if err != nil {
				return loadError("manifest "+m.Name, err)
			}
			synthesized[i] = s.synthesizeAll(m, records)
			return nil
		})
	}
	g.Go(func() error {
		var err error
		overrides, err = s.src.Overrides.ListOverrides(gctx, tenantID)
		if err != nil {
			return loadError("overrides", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.log.Error("navigation build failed", zap.String("tenant", tenantID), zap.Error(err))
		return nil, err
	}

	candidates := append([]model.NavigationItem(nil), registry...)
	for _, items := range synthesized {
		candidates = append(candidates, items...)
	}
	roots := BuildTree(candidates, overrides)
	return s.hooks.Apply(roots), nil
}

func (s *Service) synthesizeAll(m Manifest, records []model.PluginNavigationRecord) []model.NavigationItem {
	out := make([]model.NavigationItem, 0, len(records))
	for _, rec := range records {
		if rec.PluginID == "" || strings.TrimSpace(rec.Descriptor) == "" {
			continue
		}
		d, err := m.Format.Parse(rec.Descriptor)
		if err != nil {
			s.log.Warn("skipping plugin navigation",
				zap.String("plugin", rec.PluginID),
				zap.String("source", m.Name),
				zap.Error(err))
			continue
		}
		if !d.Enabled {
			continue
		}
		out = append(out, Synthesize(rec.PluginID, d))
	}
	return out
}

// UpsertPluginNavigation stores or removes the registry row of a plugin.
// It returns the stored item, or nil when the descriptor is disabled and the
// row was deleted. Repeating a call with the same input leaves the same row.
func (s *Service) UpsertPluginNavigation(ctx context.Context, pluginID string, d model.PluginNavigationDescriptor) (*model.NavigationItem, error) {
	pluginID = strings.TrimSpace(pluginID)
	if pluginID == "" {
		return nil, ErrInvalidPluginID
	}
	key := PluginKey(pluginID)
	if !d.Enabled {
		if err := s.src.Writer.DeleteNavigationItem(ctx, key); err != nil {
			return nil, fmt.Errorf("delete navigation item %s: %w", key, err)
		}
		s.log.Info("plugin navigation removed", zap.String("plugin", pluginID))
		return nil, nil
	}

	// A plugin placed relative to its own row would drift on every call.
	var relative *model.NavigationItem
	if d.RelativeToKey != "" && d.RelativeToKey != key {
		it, ok, err := s.src.Writer.GetNavigationItem(ctx, d.RelativeToKey)
		if err != nil {
			return nil, fmt.Errorf("get navigation item %s: %w", d.RelativeToKey, err)
		}
		if ok {
			relative = &it
		}
	}
	label := d.Label
	if label == "" {
		label = pluginID
	}
	item := model.NavigationItem{
		Key:           key,
		Label:         label,
		Icon:          d.Icon,
		Route:         d.Route,
		ParentKey:     d.ParentKey,
		OrderPosition: OrderPosition(d, relative),
		IsCore:        false,
		IsVisible:     true,
		PluginID:      pluginID,
		Category:      model.CategoryPlugins,
	}
	if err := s.src.Writer.UpsertNavigationItem(ctx, item); err != nil {
		return nil, fmt.Errorf("upsert navigation item %s: %w", key, err)
	}
	s.log.Info("plugin navigation stored",
		zap.String("plugin", pluginID),
		zap.Float64("orderPosition", item.OrderPosition))
	return &item, nil
}

// OrderPosition computes where a plugin item sorts. Placing it before or
// after an existing item lands half a step away from it, so neighbours never
// need renumbering.
func OrderPosition(d model.PluginNavigationDescriptor, relative *model.NavigationItem) float64 {
	pos := float64(defaultPluginOrder)
	if d.Order != 0 {
		pos = d.Order
	}
	if relative == nil {
		return pos
	}
	switch d.Position {
	case "before":
		return relative.OrderPosition - 0.5
	case "after":
		return relative.OrderPosition + 0.5
	}
	return pos
}
