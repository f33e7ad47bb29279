package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"merittrack/internal/config"
	"merittrack/internal/middleware"
	"merittrack/internal/service"
)

// ProvisionRequest is the account event pushed by the external auth system
type ProvisionRequest struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
}

// UpdateRoleRequest represents the request body for role changes
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UserHandler handles user account requests
type UserHandler struct {
	identityService *service.IdentityService
	authConfig      *config.AuthConfig
}

// NewUserHandler creates a new user handler
func NewUserHandler(identityService *service.IdentityService, authConfig *config.AuthConfig) *UserHandler {
	return &UserHandler{
		identityService: identityService,
		authConfig:      authConfig,
	}
}

// Provision ingests an account event from the external auth system
// @Summary Provision user
// @Description Create or refresh a user account from an upstream auth event
// @Tags Users
// @Accept json
// @Produce json
// @Param secret header string true "Shared provisioning secret" name(X-Provision-Secret)
// @Param user body ProvisionRequest true "Account data"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Bad secret"
// @Router /auth/provision [post]
func (h *UserHandler) Provision(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get("X-Provision-Secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.authConfig.ProvisionSecret)) != 1 {
		http.Error(w, "Invalid provisioning secret", http.StatusUnauthorized)
		return
	}

	var req ProvisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == uuid.Nil || req.Email == "" {
		http.Error(w, "id and email are required", http.StatusBadRequest)
		return
	}

	user, err := h.identityService.ProvisionUser(req.ID, req.Email, req.FirstName, req.LastName, req.Role)
	if err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	JSONResponse(w, user)
}

// Deprovision removes a user account on an upstream deletion event
// @Summary Deprovision user
// @Description Remove a user account from an upstream auth event
// @Tags Users
// @Param secret header string true "Shared provisioning secret" name(X-Provision-Secret)
// @Param id path string true "User ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Bad secret"
// @Failure 404 {object} map[string]string "User not found"
// @Router /auth/provision/{id} [delete]
func (h *UserHandler) Deprovision(w http.ResponseWriter, r *http.Request) {
	secret := r.Header.Get("X-Provision-Secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(h.authConfig.ProvisionSecret)) != 1 {
		http.Error(w, "Invalid provisioning secret", http.StatusUnauthorized)
		return
	}

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.identityService.RemoveUser(id); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetCurrentUser returns the authenticated user's own account
// @Summary Get current user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /users/me [get]
func (h *UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	JSONResponse(w, user)
}

// GetAllUsers retrieves all users
// @Summary Get all users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /users [get]
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.identityService.ListUsers()
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, users)
}

// GetUserByID retrieves a user by ID
// @Summary Get user by ID
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.identityService.GetUser(id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, user)
}

// UpdateUserRole changes a user's role
// @Summary Update user role
// @Description Change a user's role (admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param role body UpdateRoleRequest true "New role"
// @Success 200 {object} models.User
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 422 {object} map[string]string "Unknown role"
// @Router /admin/users/{id}/role [put]
func (h *UserHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	user, err := h.identityService.UpdateRole(id, req.Role, acting)
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, user)
}
