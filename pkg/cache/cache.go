// Package cache provides a per-tenant expiring cache.
package cache

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const sep = "\x00"

// TenantCache stores values keyed by (tenant, shape). Entries expire after
// the TTL and can be cleared per tenant when the underlying data changes.
type TenantCache[V any] struct {
	lru *expirable.LRU[string, V]
}

func New[V any](size int, ttl time.Duration) *TenantCache[V] {
	if size <= 0 {
		size = 1024
	}
	return &TenantCache[V]{lru: expirable.NewLRU[string, V](size, nil, ttl)}
}

func cacheKey(tenantID, shape string) string {
	return tenantID + sep + shape
}

func (c *TenantCache[V]) Get(tenantID, shape string) (V, bool) {
	return c.lru.Get(cacheKey(tenantID, shape))
}

func (c *TenantCache[V]) Set(tenantID, shape string, v V) {
	c.lru.Add(cacheKey(tenantID, shape), v)
}

// ClearTenant drops every entry of a tenant.
func (c *TenantCache[V]) ClearTenant(tenantID string) {
	prefix := tenantID + sep
	for _, k := range c.lru.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.lru.Remove(k)
		}
	}
}

func (c *TenantCache[V]) Purge() {
	c.lru.Purge()
}

func (c *TenantCache[V]) Len() int {
	return c.lru.Len()
}
