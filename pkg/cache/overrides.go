package cache

import (
	"context"
	"time"

	"shop-admin/pkg/model"
	"shop-admin/pkg/navigation"
)

const overridesShape = "overrides"

// OverrideSource caches another OverrideSource's results per tenant.
type OverrideSource struct {
	next   navigation.OverrideSource
	cache  *TenantCache[[]model.NavigationOverride]
	global bool
}

// NewOverrideSource wraps next. When global is true the wrapped source
// ignores the tenant, so any write invalidates every tenant's entry.
func NewOverrideSource(next navigation.OverrideSource, size int, ttl time.Duration, global bool) *OverrideSource {
	return &OverrideSource{
		next:   next,
		cache:  New[[]model.NavigationOverride](size, ttl),
		global: global,
	}
}

func (s *OverrideSource) ListOverrides(ctx context.Context, tenantID string) ([]model.NavigationOverride, error) {
	if v, ok := s.cache.Get(tenantID, overridesShape); ok {
		return v, nil
	}
	v, err := s.next.ListOverrides(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(tenantID, overridesShape, v)
	return v, nil
}

// Invalidate drops cached overrides after a write for tenantID.
func (s *OverrideSource) Invalidate(tenantID string) {
	if s.global {
		s.cache.Purge()
		return
	}
	s.cache.ClearTenant(tenantID)
}
