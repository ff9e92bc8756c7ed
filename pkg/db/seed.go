package db

import (
	"context"
	"fmt"

	"shop-admin/pkg/model"
	"shop-admin/pkg/navigation"
)

// CoreNavigation is the default core navigation of a new deployment.
var CoreNavigation = []model.NavigationItem{
	{Key: "dashboard", Label: "Dashboard", Icon: "home", Route: "/admin", OrderPosition: 1},
	{Key: "orders", Label: "Orders", Icon: "shopping-cart", Route: "/admin/orders", OrderPosition: 2},
	{Key: "products", Label: "Products", Icon: "package", Route: "/admin/products", OrderPosition: 3},
	{Key: "categories", Label: "Categories", Icon: "folder", Route: "/admin/categories", ParentKey: "products", OrderPosition: 1},
	{Key: "attributes", Label: "Attributes", Icon: "tag", Route: "/admin/attributes", ParentKey: "products", OrderPosition: 2},
	{Key: "customers", Label: "Customers", Icon: "users", Route: "/admin/customers", OrderPosition: 4},
	{Key: "content", Label: "Content", Icon: "file-text", OrderPosition: 5},
	{Key: "cms-pages", Label: "Pages", Icon: "file", Route: "/admin/cms-pages", ParentKey: "content", OrderPosition: 1},
	{Key: "plugins", Label: "Plugins", Icon: "puzzle", Route: "/admin/plugins", OrderPosition: 6},
	{Key: "settings", Label: "Settings", Icon: "settings", Route: "/admin/settings", OrderPosition: 7},
}

// registry is the subset of the store seeding needs.
type registry interface {
	navigation.RegistryWriter
	ListNavigationItems(ctx context.Context) ([]model.NavigationItem, error)
}

// SeedCoreNavigation inserts CoreNavigation when the registry is empty and
// reports how many rows were written.
func SeedCoreNavigation(ctx context.Context, r registry) (int, error) {
	existing, err := r.ListNavigationItems(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for _, it := range CoreNavigation {
		it.IsCore = true
		it.IsVisible = true
		it.Category = "core"
		if err := r.UpsertNavigationItem(ctx, it); err != nil {
			return 0, fmt.Errorf("seed %s: %w", it.Key, err)
		}
	}
	return len(CoreNavigation), nil
}
