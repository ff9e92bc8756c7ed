// Package config loads controller settings from .env, the environment and
// command-line flags, in increasing order of precedence.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database selects and addresses the backing store.
type Database struct {
	Driver     string // memory|mysql|sqlite
	MySQLDSN   string
	MySQLHost  string
	MySQLPort  string
	MySQLUser  string
	MySQLPass  string
	MySQLDB    string
	SQLitePath string
	SeedCore   bool
}

// Config is the controller configuration.
type Config struct {
	Addr      string
	AuthToken string
	JWTSecret string
	LogFormat string // json|console

	DB Database

	ManifestB    string // db|consul
	ConsulAddr   string
	ConsulPrefix string

	OverrideCacheTTL      time.Duration
	OverrideCacheSize     int
	TenantScopedOverrides bool
	TreeHooks             []string

	TLSCert  string
	TLSKey   string
	ClientCA string
}

// Load reads .env (when present) and the environment.
func Load() (Config, error) {
	_ = loadDotEnv(".env")
	ttl, err := time.ParseDuration(getenv("OVERRIDE_CACHE_TTL", "0s"))
	if err != nil {
		return Config{}, fmt.Errorf("OVERRIDE_CACHE_TTL: %w", err)
	}
	size, err := strconv.Atoi(getenv("OVERRIDE_CACHE_SIZE", "1024"))
	if err != nil {
		return Config{}, fmt.Errorf("OVERRIDE_CACHE_SIZE: %w", err)
	}
	cfg := Config{
		Addr:      getenv("ADDR", ":8080"),
		AuthToken: os.Getenv("AUTH_TOKEN"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		LogFormat: getenv("LOG_FORMAT", "json"),
		DB: Database{
			Driver:     getenv("STORE", "memory"),
			MySQLDSN:   os.Getenv("MYSQL_DSN"),
			MySQLHost:  getenv("MYSQL_HOST", "127.0.0.1"),
			MySQLPort:  getenv("MYSQL_PORT", "3306"),
			MySQLUser:  getenv("MYSQL_USER", "root"),
			MySQLPass:  os.Getenv("MYSQL_PASS"),
			MySQLDB:    getenv("MYSQL_DB", "shop_admin"),
			SQLitePath: getenv("SQLITE_PATH", "shop-admin.db"),
			SeedCore:   getbool("SEED_CORE", true),
		},
		ManifestB:             getenv("MANIFEST_B", "db"),
		ConsulAddr:            getenv("CONSUL_ADDR", "127.0.0.1:8500"),
		ConsulPrefix:          getenv("CONSUL_PREFIX", "shop-admin/plugins/"),
		OverrideCacheTTL:      ttl,
		OverrideCacheSize:     size,
		TenantScopedOverrides: getbool("TENANT_SCOPED_OVERRIDES", false),
		TreeHooks:             SplitList(os.Getenv("NAV_TREE_HOOKS")),
		TLSCert:               os.Getenv("TLS_CERT"),
		TLSKey:                os.Getenv("TLS_KEY"),
		ClientCA:              os.Getenv("CLIENT_CA"),
	}
	return cfg, nil
}

// BindFlags registers flags that override the loaded values on fs.Parse.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.StringVar(&c.AuthToken, "token", c.AuthToken, "static admin auth token (optional)")
	fs.StringVar(&c.DB.Driver, "store", c.DB.Driver, "store backend: memory|mysql|sqlite")
	fs.StringVar(&c.DB.SQLitePath, "sqlite-path", c.DB.SQLitePath, "sqlite database file (when store=sqlite)")
	fs.StringVar(&c.ManifestB, "manifest-b", c.ManifestB, "plugin registration source: db|consul (consul requires build tag consul)")
	fs.StringVar(&c.ConsulAddr, "consul-addr", c.ConsulAddr, "consul address (when manifest-b=consul)")
	fs.DurationVar(&c.OverrideCacheTTL, "override-cache-ttl", c.OverrideCacheTTL, "cache tenant overrides for this long (0 disables)")
	fs.BoolVar(&c.TenantScopedOverrides, "tenant-scoped-overrides", c.TenantScopedOverrides, "filter overrides by tenant instead of reading them globally")
	fs.Func("hooks", "comma separated navigation tree hooks", func(v string) error {
		c.TreeHooks = SplitList(v)
		return nil
	})
	fs.StringVar(&c.TLSCert, "tls-cert", c.TLSCert, "TLS cert path (enables HTTPS if set with --tls-key)")
	fs.StringVar(&c.TLSKey, "tls-key", c.TLSKey, "TLS key path (enables HTTPS if set with --tls-cert)")
	fs.StringVar(&c.ClientCA, "client-ca", c.ClientCA, "require and verify client certs using this CA (optional)")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log encoding: json|console")
}

// MySQLDataSource returns MYSQL_DSN or one assembled from the parts.
func (d Database) MySQLDataSource() string {
	if d.MySQLDSN != "" {
		return d.MySQLDSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.MySQLUser, d.MySQLPass, d.MySQLHost, d.MySQLPort, d.MySQLDB)
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err == nil {
		return godotenv.Load(path)
	}
	return nil
}
