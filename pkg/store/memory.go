package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"shop-admin/pkg/model"
)

// MemoryStore is a simple in-memory implementation, intended for dev/demo
// and tests.
type MemoryStore struct {
	mu            sync.RWMutex
	opts          options
	items         map[string]model.NavigationItem
	itemSeq       map[string]int64
	seq           int64
	overrides     []model.NavigationOverride
	nextOverride  uint
	plugins       map[string]model.Plugin
	registrations map[string]model.PluginRegistration
	tenantPlugins map[string]model.TenantPlugin
	audit         []model.AuditEntry
	users         []model.User
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		opts:          applyOptions(opts),
		items:         make(map[string]model.NavigationItem),
		itemSeq:       make(map[string]int64),
		plugins:       make(map[string]model.Plugin),
		registrations: make(map[string]model.PluginRegistration),
		tenantPlugins: make(map[string]model.TenantPlugin),
	}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) ListInstalledEnabledPlugins(_ context.Context, tenantID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []string{}
	for _, tp := range m.tenantPlugins {
		if tp.TenantID == tenantID && tp.IsInstalled && tp.IsEnabled {
			out = append(out, tp.PluginID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryStore) ListVisibleNavigationItems(_ context.Context, pluginIDs []string) ([]model.NavigationItem, error) {
	allowed := make(map[string]bool, len(pluginIDs))
	for _, id := range pluginIDs {
		allowed[id] = true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.NavigationItem, 0, len(m.items))
	for _, it := range m.items {
		if !it.IsVisible {
			continue
		}
		if it.IsCore || (it.PluginID != "" && allowed[it.PluginID]) {
			out = append(out, it)
		}
	}
	m.sortItems(out)
	return out, nil
}

func (m *MemoryStore) ListNavigationItems(context.Context) ([]model.NavigationItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.NavigationItem, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	m.sortItems(out)
	return out, nil
}

// sortItems orders by position, then by first insertion. Caller holds mu.
func (m *MemoryStore) sortItems(items []model.NavigationItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].OrderPosition != items[j].OrderPosition {
			return items[i].OrderPosition < items[j].OrderPosition
		}
		return m.itemSeq[items[i].Key] < m.itemSeq[items[j].Key]
	})
}

func (m *MemoryStore) GetNavigationItem(_ context.Context, key string) (model.NavigationItem, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	it, ok := m.items[key]
	return it, ok, nil
}

func (m *MemoryStore) UpsertNavigationItem(_ context.Context, item model.NavigationItem) error {
	if item.Key == "" {
		return fmt.Errorf("navigation item key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	if existing, ok := m.items[item.Key]; ok {
		item.CreatedAt = existing.CreatedAt
	} else {
		m.seq++
		m.itemSeq[item.Key] = m.seq
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	m.items[item.Key] = item
	return nil
}

func (m *MemoryStore) DeleteNavigationItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	delete(m.itemSeq, key)
	return nil
}

func (m *MemoryStore) ListOverrides(_ context.Context, tenantID string) ([]model.NavigationOverride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.NavigationOverride, 0, len(m.overrides))
	for _, o := range m.overrides {
		if m.opts.tenantScopedOverrides && o.TenantID != tenantID {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (m *MemoryStore) ListTenantOverrides(_ context.Context, tenantID string) ([]model.NavigationOverride, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []model.NavigationOverride{}
	for _, o := range m.overrides {
		if o.TenantID == tenantID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MemoryStore) UpsertOverride(_ context.Context, o model.NavigationOverride) (model.NavigationOverride, error) {
	if o.NavItemKey == "" {
		return o, fmt.Errorf("navItemKey is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o.UpdatedAt = time.Now()
	for i, cur := range m.overrides {
		if cur.TenantID == o.TenantID && cur.NavItemKey == o.NavItemKey {
			o.ID = cur.ID
			m.overrides[i] = o
			return o, nil
		}
	}
	m.nextOverride++
	o.ID = m.nextOverride
	m.overrides = append(m.overrides, o)
	return o, nil
}

func (m *MemoryStore) DeleteOverride(_ context.Context, tenantID, navItemKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.overrides {
		if cur.TenantID == tenantID && cur.NavItemKey == navItemKey {
			m.overrides = append(m.overrides[:i], m.overrides[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) ListActivePluginManifests(context.Context) ([]model.PluginNavigationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []model.PluginNavigationRecord{}
	for _, p := range m.plugins {
		if p.Status == model.PluginActive && p.AdminNavigation != "" {
			out = append(out, model.PluginNavigationRecord{PluginID: p.ID, Descriptor: p.AdminNavigation})
		}
	}
	sortRecords(out)
	return out, nil
}

func (m *MemoryStore) ListActivePluginRegistrations(context.Context) ([]model.PluginNavigationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []model.PluginNavigationRecord{}
	for _, r := range m.registrations {
		if r.Status == model.PluginActive && r.Manifest != "" {
			out = append(out, model.PluginNavigationRecord{PluginID: r.PluginID, Descriptor: r.Manifest})
		}
	}
	sortRecords(out)
	return out, nil
}

func sortRecords(recs []model.PluginNavigationRecord) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].PluginID < recs[j].PluginID })
}

func (m *MemoryStore) UpsertPlugin(_ context.Context, p model.Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plugins[p.ID] = p
	return nil
}

func (m *MemoryStore) UpsertPluginRegistration(_ context.Context, r model.PluginRegistration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations[r.PluginID] = r
	return nil
}

func (m *MemoryStore) SetTenantPlugin(_ context.Context, tp model.TenantPlugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenantPlugins[tp.TenantID+"/"+tp.PluginID] = tp
	return nil
}

func (m *MemoryStore) AppendAudit(_ context.Context, e model.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit = append(m.audit, e)
	return nil
}

func (m *MemoryStore) ListAudit(_ context.Context, limit int) ([]model.AuditEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 || limit > len(m.audit) {
		limit = len(m.audit)
	}
	out := make([]model.AuditEntry, 0, limit)
	start := len(m.audit) - limit
	for i := start; i < len(m.audit); i++ {
		out = append(out, m.audit[i])
	}
	return out, nil
}

func (m *MemoryStore) CountUsers(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

func (m *MemoryStore) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cur := range m.users {
		if cur.Username == u.Username {
			return fmt.Errorf("user %s already exists", u.Username)
		}
	}
	u.ID = uint(len(m.users) + 1)
	u.CreatedAt = time.Now()
	m.users = append(m.users, *u)
	return nil
}

func (m *MemoryStore) FindUser(_ context.Context, username string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}
