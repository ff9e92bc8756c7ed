//go:build consul

package store

import (
	"go.uber.org/zap"

	"shop-admin/pkg/consul"
	"shop-admin/pkg/navigation"
)

// NewConsulManifestSource creates a Consul-backed plugin registration source
// (requires build tag consul).
func NewConsulManifestSource(addr, prefix string, log *zap.Logger) navigation.ManifestSource {
	src, err := consul.NewManifestSource(addr, prefix, log)
	if err != nil {
		log.Error("consul manifest source unavailable", zap.String("addr", addr), zap.Error(err))
		return nil
	}
	return src
}
