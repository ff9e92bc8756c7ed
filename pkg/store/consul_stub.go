//go:build !consul

package store

import (
	"go.uber.org/zap"

	"shop-admin/pkg/navigation"
)

// NewConsulManifestSource returns nil when the consul build tag is not
// enabled; callers fall back to the database registration source.
func NewConsulManifestSource(addr, prefix string, log *zap.Logger) navigation.ManifestSource {
	log.Warn("consul manifest source requested but consul build tag not enabled; using database registrations",
		zap.String("addr", addr), zap.String("prefix", prefix))
	return nil
}
