package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shop-admin/pkg/model"
)

// Models lists every table the gorm store needs migrated.
func Models() []interface{} {
	return []interface{}{
		&model.NavigationItem{},
		&model.NavigationOverride{},
		&model.Plugin{},
		&model.PluginRegistration{},
		&model.TenantPlugin{},
		&model.AuditEntry{},
		&model.User{},
	}
}

// GormStore persists navigation state in a relational database.
type GormStore struct {
	db   *gorm.DB
	opts options
}

func NewGormStore(db *gorm.DB, opts ...Option) *GormStore {
	return &GormStore{db: db, opts: applyOptions(opts)}
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) ListInstalledEnabledPlugins(ctx context.Context, tenantID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&model.TenantPlugin{}).
		Where("tenant_id = ? AND is_installed = ? AND is_enabled = ?", tenantID, true, true).
		Order("plugin_id").
		Pluck("plugin_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list tenant plugins: %w", err)
	}
	return ids, nil
}

func (s *GormStore) ListVisibleNavigationItems(ctx context.Context, pluginIDs []string) ([]model.NavigationItem, error) {
	q := s.db.WithContext(ctx).Where("is_visible = ?", true)
	if len(pluginIDs) > 0 {
		q = q.Where("(is_core = ? OR plugin_id IN ?)", true, pluginIDs)
	} else {
		q = q.Where("is_core = ?", true)
	}
	var items []model.NavigationItem
	if err := q.Order("order_position ASC, created_at ASC, nav_key ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list navigation items: %w", err)
	}
	return items, nil
}

func (s *GormStore) ListNavigationItems(ctx context.Context) ([]model.NavigationItem, error) {
	var items []model.NavigationItem
	if err := s.db.WithContext(ctx).Order("order_position ASC, created_at ASC, nav_key ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list navigation items: %w", err)
	}
	return items, nil
}

func (s *GormStore) GetNavigationItem(ctx context.Context, key string) (model.NavigationItem, bool, error) {
	var it model.NavigationItem
	err := s.db.WithContext(ctx).Where("nav_key = ?", key).First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.NavigationItem{}, false, nil
	}
	if err != nil {
		return model.NavigationItem{}, false, fmt.Errorf("get navigation item: %w", err)
	}
	return it, true, nil
}

func (s *GormStore) UpsertNavigationItem(ctx context.Context, item model.NavigationItem) error {
	if item.Key == "" {
		return fmt.Errorf("navigation item key is required")
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "nav_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"label", "icon", "route", "parent_key", "order_position",
			"is_core", "is_visible", "plugin_id", "category", "updated_at",
		}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("upsert navigation item: %w", err)
	}
	return nil
}

func (s *GormStore) DeleteNavigationItem(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("nav_key = ?", key).Delete(&model.NavigationItem{}).Error; err != nil {
		return fmt.Errorf("delete navigation item: %w", err)
	}
	return nil
}

func (s *GormStore) ListOverrides(ctx context.Context, tenantID string) ([]model.NavigationOverride, error) {
	q := s.db.WithContext(ctx)
	if s.opts.tenantScopedOverrides {
		q = q.Where("tenant_id = ?", tenantID)
	}
	var out []model.NavigationOverride
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	return out, nil
}

func (s *GormStore) ListTenantOverrides(ctx context.Context, tenantID string) ([]model.NavigationOverride, error) {
	var out []model.NavigationOverride
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list tenant overrides: %w", err)
	}
	return out, nil
}

func (s *GormStore) UpsertOverride(ctx context.Context, o model.NavigationOverride) (model.NavigationOverride, error) {
	if o.NavItemKey == "" {
		return o, fmt.Errorf("navItemKey is required")
	}
	o.ID = 0
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "nav_item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"custom_label", "custom_icon", "custom_order", "parent_key",
			"is_enabled", "badge_text", "badge_color", "updated_at",
		}),
	}).Create(&o).Error
	if err != nil {
		return o, fmt.Errorf("upsert override: %w", err)
	}
	var saved model.NavigationOverride
	if err := s.db.WithContext(ctx).Where("tenant_id = ? AND nav_item_key = ?", o.TenantID, o.NavItemKey).First(&saved).Error; err != nil {
		return o, fmt.Errorf("reload override: %w", err)
	}
	return saved, nil
}

func (s *GormStore) DeleteOverride(ctx context.Context, tenantID, navItemKey string) error {
	res := s.db.WithContext(ctx).
		Where("tenant_id = ? AND nav_item_key = ?", tenantID, navItemKey).
		Delete(&model.NavigationOverride{})
	if res.Error != nil {
		return fmt.Errorf("delete override: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListActivePluginManifests(ctx context.Context) ([]model.PluginNavigationRecord, error) {
	var plugins []model.Plugin
	err := s.db.WithContext(ctx).
		Where("status = ? AND admin_navigation IS NOT NULL AND admin_navigation <> ''", model.PluginActive).
		Order("id").Find(&plugins).Error
	if err != nil {
		return nil, fmt.Errorf("list plugins: %w", err)
	}
	out := make([]model.PluginNavigationRecord, 0, len(plugins))
	for _, p := range plugins {
		out = append(out, model.PluginNavigationRecord{PluginID: p.ID, Descriptor: p.AdminNavigation})
	}
	return out, nil
}

func (s *GormStore) ListActivePluginRegistrations(ctx context.Context) ([]model.PluginNavigationRecord, error) {
	var regs []model.PluginRegistration
	err := s.db.WithContext(ctx).
		Where("status = ? AND manifest IS NOT NULL AND manifest <> ''", model.PluginActive).
		Order("plugin_id").Find(&regs).Error
	if err != nil {
		return nil, fmt.Errorf("list plugin registrations: %w", err)
	}
	out := make([]model.PluginNavigationRecord, 0, len(regs))
	for _, r := range regs {
		out = append(out, model.PluginNavigationRecord{PluginID: r.PluginID, Descriptor: r.Manifest})
	}
	return out, nil
}

func (s *GormStore) UpsertPlugin(ctx context.Context, p model.Plugin) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "version", "status", "admin_navigation", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return fmt.Errorf("upsert plugin: %w", err)
	}
	return nil
}

func (s *GormStore) UpsertPluginRegistration(ctx context.Context, r model.PluginRegistration) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "plugin_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "status", "manifest", "updated_at"}),
	}).Create(&r).Error
	if err != nil {
		return fmt.Errorf("upsert plugin registration: %w", err)
	}
	return nil
}

func (s *GormStore) SetTenantPlugin(ctx context.Context, tp model.TenantPlugin) error {
	tp.ID = 0
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "plugin_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_installed", "is_enabled", "updated_at"}),
	}).Create(&tp).Error
	if err != nil {
		return fmt.Errorf("set tenant plugin: %w", err)
	}
	return nil
}

func (s *GormStore) AppendAudit(ctx context.Context, e model.AuditEntry) error {
	if err := s.db.WithContext(ctx).Create(&e).Error; err != nil {
		return fmt.Errorf("append audit: %w", err)
	}
	return nil
}

func (s *GormStore) ListAudit(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	q := s.db.WithContext(ctx).Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []model.AuditEntry
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	// oldest first, matching the memory store
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *GormStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (s *GormStore) CreateUser(ctx context.Context, u *model.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *GormStore) FindUser(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return u, ErrNotFound
	}
	if err != nil {
		return u, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}
