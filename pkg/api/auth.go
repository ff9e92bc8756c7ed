package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shop-admin/pkg/auth"
	"shop-admin/pkg/model"
	"shop-admin/pkg/store"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	Store store.NavStore
	Log   *zap.Logger
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TenantID string `json:"tenantId,omitempty"` // only read by POST /api/v1/auth/users
}

// UserResponse is returned after an account is created.
type UserResponse struct {
	Success bool       `json:"success"`
	User    model.User `json:"user"`
}

func (a *AuthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/auth/register", a.handleRegister)
	mux.HandleFunc("/api/v1/auth/login", a.handleLogin)
}

// handleRegister only allows the first user to be created (platform admin).
func (a *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	count, err := a.Store.CountUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count users")
		return
	}
	if count > 0 {
		writeError(w, http.StatusForbidden, "registration closed")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid password")
		return
	}
	user := model.User{Username: req.Username, PasswordHash: string(hash), IsAdmin: true}
	if err := a.Store.CreateUser(r.Context(), &user); err != nil {
		a.Log.Error("create user failed", zap.String("username", req.Username), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	token, err := auth.Generate(user.ID, user.Username, user.TenantID, tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (a *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user, err := a.Store.FindUser(r.Context(), req.Username)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := auth.Generate(user.ID, user.Username, user.TenantID, tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleCreateUser lets a platform admin add accounts. A user created with a
// tenantId receives tokens restricted to that tenant.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := s.authorize(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !platformAdmin(claims) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	_, err := s.store.FindUser(r.Context(), req.Username)
	if err == nil {
		writeError(w, http.StatusConflict, "user already exists")
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid password")
		return
	}
	user := model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		TenantID:     req.TenantID,
		IsAdmin:      req.TenantID == "",
	}
	if err := s.store.CreateUser(r.Context(), &user); err != nil {
		s.log.Error("create user failed", zap.String("username", req.Username), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	s.audit(r.Context(), user.TenantID, actorOf(claims), "user_create", user.Username, "")
	writeJSON(w, http.StatusOK, UserResponse{Success: true, User: user})
}
