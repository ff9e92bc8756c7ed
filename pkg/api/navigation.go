package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"shop-admin/pkg/auth"
	"shop-admin/pkg/model"
	"shop-admin/pkg/navigation"
	"shop-admin/pkg/store"
)

// NavigationResponse is the body of GET /api/v1/navigation.
type NavigationResponse struct {
	Success    bool                    `json:"success"`
	Navigation []*model.NavigationNode `json:"navigation"`
}

// PluginNavigationRequest is the body of POST /api/v1/plugins/navigation.
type PluginNavigationRequest struct {
	PluginID   string                           `json:"pluginId"`
	Navigation model.PluginNavigationDescriptor `json:"navigation"`
}

// PluginNavigationResponse carries the stored row, or null after a removal.
type PluginNavigationResponse struct {
	Success bool                  `json:"success"`
	Item    *model.NavigationItem `json:"item"`
}

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authorize(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
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
	roots, err := s.nav.BuildForTenant(r.Context(), tenantID)
	if err != nil {
		var loadErr *navigation.NavigationLoadError
		if errors.As(err, &loadErr) {
			writeError(w, http.StatusInternalServerError, loadErr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to build navigation")
		return
	}
	writeJSON(w, http.StatusOK, NavigationResponse{Success: true, Navigation: roots})
}

func (s *Server) handleRegistry(w http.ResponseWriter, r *http.Request) {
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
	items, err := s.store.ListNavigationItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list registry")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "items": items})
}

func (s *Server) handlePluginNavigation(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authorize(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !platformAdmin(claims) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req PluginNavigationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	pluginID := strings.TrimSpace(req.PluginID)
	item, err := s.nav.UpsertPluginNavigation(r.Context(), pluginID, req.Navigation)
	if errors.Is(err, navigation.ErrInvalidPluginID) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.log.Error("plugin navigation update failed", zap.String("plugin", pluginID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	action, detail := "plugin_navigation_delete", "navigation disabled"
	if item != nil {
		action = "plugin_navigation_upsert"
		detail = fmt.Sprintf("orderPosition=%g parent=%q", item.OrderPosition, item.ParentKey)
	}
	key := navigation.PluginKey(pluginID)
	s.audit(r.Context(), "", actorOf(claims), action, key, detail)
	s.hub.Broadcast("", Event{Type: EventNavigationChanged, Payload: map[string]string{"key": key}})
	writeJSON(w, http.StatusOK, PluginNavigationResponse{Success: true, Item: item})
}

func (s *Server) handleOverrides(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authorize(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	switch r.Method {
	case http.MethodGet:
		tenantID := r.URL.Query().Get("tenantId")
		if tenantID == "" {
			writeError(w, http.StatusBadRequest, "tenantId is required")
			return
		}
		if !tenantAllowed(claims, tenantID) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		items, err := s.store.ListTenantOverrides(r.Context(), tenantID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list overrides")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "overrides": items})
	case http.MethodPost, http.MethodPut:
		var o model.NavigationOverride
		if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		if o.TenantID == "" || o.NavItemKey == "" {
			writeError(w, http.StatusBadRequest, "tenantId and navItemKey are required")
			return
		}
		if !tenantAllowed(claims, o.TenantID) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		saved, err := s.store.UpsertOverride(r.Context(), o)
		if err != nil {
			s.log.Error("override upsert failed", zap.String("tenant", o.TenantID), zap.String("key", o.NavItemKey), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save override")
			return
		}
		s.overridesChanged(r, claims, saved.TenantID, saved.NavItemKey, "override_upsert")
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "override": saved})
	case http.MethodDelete:
		tenantID := r.URL.Query().Get("tenantId")
		key := r.URL.Query().Get("navItemKey")
		if tenantID == "" || key == "" {
			writeError(w, http.StatusBadRequest, "tenantId and navItemKey are required")
			return
		}
		if !tenantAllowed(claims, tenantID) {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		err := s.store.DeleteOverride(r.Context(), tenantID, key)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "override not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to delete override")
			return
		}
		s.overridesChanged(r, claims, tenantID, key, "override_delete")
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) overridesChanged(r *http.Request, claims *auth.Claims, tenantID, key, action string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(tenantID)
	}
	s.audit(r.Context(), tenantID, actorOf(claims), action, key, "")
	s.hub.Broadcast(tenantID, Event{Type: EventNavigationChanged, Payload: map[string]string{"key": key}})
}
