package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shop-admin/pkg/auth"
	"shop-admin/pkg/model"
	"shop-admin/pkg/navigation"
	"shop-admin/pkg/store"
	"shop-admin/pkg/version"
)

// Invalidator drops cached data for a tenant after a write.
type Invalidator interface {
	Invalidate(tenantID string)
}

// Options wires a Server.
type Options struct {
	Store       store.NavStore
	Navigation  *navigation.Service
	Hub         *Hub
	Invalidator Invalidator
	Token       string
	StoreName   string
	Log         *zap.Logger
}

// Server exposes the navigation service and its configuration over HTTP.
type Server struct {
	store       store.NavStore
	nav         *navigation.Service
	hub         *Hub
	invalidator Invalidator
	token       string
	storeName   string
	log         *zap.Logger
}

func NewServer(o Options) *Server {
	log := o.Log
	if log == nil {
		log = zap.NewNop()
	}
	hub := o.Hub
	if hub == nil {
		hub = NewHub(log)
	}
	return &Server{
		store:       o.Store,
		nav:         o.Navigation,
		hub:         hub,
		invalidator: o.Invalidator,
		token:       o.Token,
		storeName:   o.StoreName,
		log:         log,
	}
}

// RegisterRoutes wires the HTTP handlers on the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/v1/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, model.VersionInfo{
			Build:       version.Build,
			GoVersion:   runtime.Version(),
			StoreDriver: s.storeName,
		})
	})
	mux.HandleFunc("/api/v1/navigation", s.handleNavigation)
	mux.HandleFunc("/api/v1/navigation/registry", s.handleRegistry)
	mux.HandleFunc("/api/v1/navigation/overrides", s.handleOverrides)
	mux.HandleFunc("/api/v1/plugins/navigation", s.handlePluginNavigation)
	mux.HandleFunc("/api/v1/audit", s.handleAudit)
	mux.HandleFunc("/api/v1/ws", s.handleWS)
	mux.HandleFunc("/api/v1/auth/users", s.handleCreateUser)

	ah := &AuthHandler{Store: s.store, Log: s.log}
	ah.RegisterRoutes(mux)
}

// Hub returns the websocket hub used for change notifications.
func (s *Server) Hub() *Hub {
	return s.hub
}

// authorize accepts the static token or a valid JWT. Claims are nil for the
// static token and for open deployments (no token configured).
func (s *Server) authorize(r *http.Request) (*auth.Claims, bool) {
	bearer := ""
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		bearer = strings.TrimPrefix(h, "Bearer ")
	}
	if s.token != "" {
		if r.Header.Get("X-Auth-Token") == s.token || bearer == s.token {
			return nil, true
		}
	}
	if bearer != "" {
		if claims, err := auth.Parse(bearer); err == nil {
			return claims, true
		}
		if s.token != "" {
			return nil, false
		}
	}
	return nil, s.token == ""
}

func tenantAllowed(claims *auth.Claims, tenantID string) bool {
	return claims == nil || claims.TenantID == "" || claims.TenantID == tenantID
}

func platformAdmin(claims *auth.Claims) bool {
	return claims == nil || claims.TenantID == ""
}

func actorOf(claims *auth.Claims) string {
	if claims == nil || claims.Username == "" {
		return "admin"
	}
	return claims.Username
}

func (s *Server) audit(ctx context.Context, tenantID, actor, action, target, detail string) {
	err := s.store.AppendAudit(ctx, model.AuditEntry{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Actor:     actor,
		Action:    action,
		Target:    target,
		Detail:    detail,
		Timestamp: time.Now(),
	})
	if err != nil {
		s.log.Warn("audit write failed", zap.String("action", action), zap.String("target", target), zap.Error(err))
	}
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authorize(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !platformAdmin(claims) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	entries, err := s.store.ListAudit(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list audit")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authorize(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	tenantID := r.URL.Query().Get("tenantId")
	if tenantID == "" {
		writeError(w, http.StatusBadRequest, "tenantId is required")
		return
	}
	if !tenantAllowed(claims, tenantID) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	s.hub.HandleWS(w, r, tenantID)
}

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("failed to write response", zap.Error(err))
	}
}
