//go:build consul

package consul

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	consulapi "github.com/hashicorp/consul/api"
	"go.uber.org/zap"

	"shop-admin/pkg/model"
)

// DefaultPrefix is the KV folder plugin registrations are published under.
const DefaultPrefix = "shop-admin/plugins/"

// registration is the JSON document stored per plugin at <prefix><pluginId>.
type registration struct {
	PluginID string          `json:"pluginId"`
	Status   string          `json:"status"`
	Manifest json.RawMessage `json:"manifest"`
}

// ManifestSource reads plugin registrations from Consul KV.
type ManifestSource struct {
	cli    *consulapi.Client
	prefix string
	log    *zap.Logger
}

func NewManifestSource(addr, prefix string, log *zap.Logger) (*ManifestSource, error) {
	cfg := consulapi.DefaultConfig()
	if addr != "" {
		cfg.Address = addr
	}
	cli, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &ManifestSource{cli: cli, prefix: prefix, log: log}, nil
}

func (s *ManifestSource) ListActivePluginsWithNavigation(ctx context.Context) ([]model.PluginNavigationRecord, error) {
	pairs, _, err := s.cli.KV().List(s.prefix, (&consulapi.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("consul list %s: %w", s.prefix, err)
	}
	out := make([]model.PluginNavigationRecord, 0, len(pairs))
	for _, p := range pairs {
		var reg registration
		if err := json.Unmarshal(p.Value, &reg); err != nil {
			s.log.Warn("skipping malformed plugin registration", zap.String("key", p.Key), zap.Error(err))
			continue
		}
		if reg.PluginID == "" {
			reg.PluginID = strings.TrimPrefix(p.Key, s.prefix)
		}
		if reg.Status != model.PluginActive || len(reg.Manifest) == 0 {
			continue
		}
		out = append(out, model.PluginNavigationRecord{PluginID: reg.PluginID, Descriptor: string(reg.Manifest)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PluginID < out[j].PluginID })
	return out, nil
}

// Publish writes a registration under <prefix><pluginId>.
func (s *ManifestSource) Publish(ctx context.Context, r model.PluginRegistration) error {
	b, err := json.Marshal(registration{PluginID: r.PluginID, Status: r.Status, Manifest: json.RawMessage(r.Manifest)})
	if err != nil {
		return err
	}
	_, err = s.cli.KV().Put(&consulapi.KVPair{Key: s.prefix + r.PluginID, Value: b}, (&consulapi.WriteOptions{}).WithContext(ctx))
	return err
}

// StartWatch runs a blocking query on the prefix and calls onChange whenever
// the registrations change, until ctx is done.
func (s *ManifestSource) StartWatch(ctx context.Context, onChange func()) {
	go func() {
		q := &consulapi.QueryOptions{}
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			_, meta, err := s.cli.KV().List(s.prefix, q.WithContext(ctx))
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.log.Warn("consul watch failed", zap.String("prefix", s.prefix), zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Second):
				}
				continue
			}
			if q.WaitIndex != 0 && meta.LastIndex != q.WaitIndex {
				onChange()
			}
			q.WaitIndex = meta.LastIndex
		}
	}()
}
