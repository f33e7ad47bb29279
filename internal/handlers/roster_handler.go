package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"merittrack/internal/middleware"
	"merittrack/internal/models"
	"merittrack/internal/service"
)

// TroopRequest represents the request body for creating/updating troops
type TroopRequest struct {
	Number int    `json:"number"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Type   string `json:"type"`
	City   string `json:"city"`
	State  string `json:"state"`
}

// ScoutRequest represents the request body for creating/updating scouts
type ScoutRequest struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	TroopID   uuid.UUID `json:"troop_id"`
}

// ScoutLeaderRequest represents the request body for creating/updating leaders
type ScoutLeaderRequest struct {
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	TroopID   uuid.UUID `json:"troop_id"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
}

// RosterHandler handles troop, scout, and scout leader requests
type RosterHandler struct {
	rosterService *service.RosterService
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(rosterService *service.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

// GetAllTroops retrieves all troops
// @Summary Get all troops
// @Tags Troops
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Troop
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /troops [get]
func (h *RosterHandler) GetAllTroops(w http.ResponseWriter, r *http.Request) {
	troops, err := h.rosterService.ListTroops()
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, troops)
}

// GetTroopByID retrieves a troop by ID
// @Summary Get troop by ID
// @Tags Troops
// @Produce json
// @Security BearerAuth
// @Param id path string true "Troop ID"
// @Success 200 {object} models.Troop
// @Failure 404 {object} map[string]string "Troop not found"
// @Router /troops/{id} [get]
func (h *RosterHandler) GetTroopByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	troop, err := h.rosterService.GetTroop(id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, troop)
}

// CreateTroop creates a new troop
// @Summary Create troop
// @Tags Troops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param troop body TroopRequest true "Troop data"
// @Success 201 {object} models.Troop
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 409 {object} map[string]string "Troop already exists"
// @Router /troops [post]
func (h *RosterHandler) CreateTroop(w http.ResponseWriter, r *http.Request) {
	var req TroopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	troop := models.Troop{
		Number: req.Number,
		Phone:  req.Phone,
		Email:  req.Email,
		Type:   req.Type,
		City:   req.City,
		State:  req.State,
	}
	if err := h.rosterService.CreateTroop(&troop, acting); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	JSONResponse(w, troop)
}

// UpdateTroop updates a troop
// @Summary Update troop
// @Tags Troops
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Troop ID"
// @Param troop body TroopRequest true "Updated troop data"
// @Success 200 {object} models.Troop
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Troop not found"
// @Router /troops/{id} [put]
func (h *RosterHandler) UpdateTroop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req TroopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	troop := models.Troop{
		ID:     id,
		Number: req.Number,
		Phone:  req.Phone,
		Email:  req.Email,
		Type:   req.Type,
		City:   req.City,
		State:  req.State,
	}
	if err := h.rosterService.UpdateTroop(&troop, acting); err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, troop)
}

// DeleteTroop deletes a troop with its scouts and leaders
// @Summary Delete troop
// @Tags Troops
// @Security BearerAuth
// @Param id path string true "Troop ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Troop not found"
// @Router /troops/{id} [delete]
func (h *RosterHandler) DeleteTroop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	if err := h.rosterService.DeleteTroop(id, acting); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetScoutsByTroop retrieves all scouts of a troop
// @Summary Get scouts by troop
// @Tags Scouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Troop ID"
// @Success 200 {array} models.Scout
// @Failure 404 {object} map[string]string "Troop not found"
// @Router /troops/{id}/scouts [get]
func (h *RosterHandler) GetScoutsByTroop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	scouts, err := h.rosterService.ListScoutsByTroop(id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, scouts)
}

// GetScoutByID retrieves a scout by ID
// @Summary Get scout by ID
// @Tags Scouts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Scout ID"
// @Success 200 {object} models.Scout
// @Failure 404 {object} map[string]string "Scout not found"
// @Router /scouts/{id} [get]
func (h *RosterHandler) GetScoutByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	scout, err := h.rosterService.GetScout(id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, scout)
}

// CreateScout registers a new scout
// @Summary Create scout
// @Description Register a scout under an existing troop
// @Tags Scouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param scout body ScoutRequest true "Scout data"
// @Success 201 {object} models.Scout
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Troop not found"
// @Router /scouts [post]
func (h *RosterHandler) CreateScout(w http.ResponseWriter, r *http.Request) {
	var req ScoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		http.Error(w, "first_name and last_name are required", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	scout, err := h.rosterService.CreateScout(req.FirstName, req.LastName, req.TroopID, acting)
	if err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	JSONResponse(w, scout)
}

// UpdateScout updates a scout
// @Summary Update scout
// @Tags Scouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Scout ID"
// @Param scout body ScoutRequest true "Updated scout data"
// @Success 200 {object} models.Scout
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Scout not found"
// @Router /scouts/{id} [put]
func (h *RosterHandler) UpdateScout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req ScoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	scout := models.Scout{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		TroopID:   req.TroopID,
	}
	if err := h.rosterService.UpdateScout(&scout, acting); err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, scout)
}

// DeleteScout removes a scout and their progress
// @Summary Delete scout
// @Tags Scouts
// @Security BearerAuth
// @Param id path string true "Scout ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Scout not found"
// @Router /scouts/{id} [delete]
func (h *RosterHandler) DeleteScout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	if err := h.rosterService.DeleteScout(id, acting); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetScoutLeadersByTroop retrieves all leaders of a troop
// @Summary Get scout leaders by troop
// @Tags ScoutLeaders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Troop ID"
// @Success 200 {array} models.ScoutLeader
// @Failure 404 {object} map[string]string "Troop not found"
// @Router /troops/{id}/leaders [get]
func (h *RosterHandler) GetScoutLeadersByTroop(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	leaders, err := h.rosterService.ListScoutLeadersByTroop(id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, leaders)
}

// CreateScoutLeader registers a new scout leader
// @Summary Create scout leader
// @Tags ScoutLeaders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param leader body ScoutLeaderRequest true "Leader data"
// @Success 201 {object} models.ScoutLeader
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Troop not found"
// @Router /leaders [post]
func (h *RosterHandler) CreateScoutLeader(w http.ResponseWriter, r *http.Request) {
	var req ScoutLeaderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	leader := models.ScoutLeader{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		TroopID:   req.TroopID,
		Phone:     req.Phone,
		Email:     req.Email,
	}
	if err := h.rosterService.CreateScoutLeader(&leader, acting); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	JSONResponse(w, leader)
}

// UpdateScoutLeader updates a scout leader
// @Summary Update scout leader
// @Tags ScoutLeaders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Leader ID"
// @Param leader body ScoutLeaderRequest true "Updated leader data"
// @Success 200 {object} models.ScoutLeader
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Leader not found"
// @Router /leaders/{id} [put]
func (h *RosterHandler) UpdateScoutLeader(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req ScoutLeaderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	leader := models.ScoutLeader{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		TroopID:   req.TroopID,
		Phone:     req.Phone,
		Email:     req.Email,
	}
	if err := h.rosterService.UpdateScoutLeader(&leader, acting); err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, leader)
}

// DeleteScoutLeader removes a scout leader
// @Summary Delete scout leader
// @Tags ScoutLeaders
// @Security BearerAuth
// @Param id path string true "Leader ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Leader not found"
// @Router /leaders/{id} [delete]
func (h *RosterHandler) DeleteScoutLeader(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	if err := h.rosterService.DeleteScoutLeader(id, acting); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
