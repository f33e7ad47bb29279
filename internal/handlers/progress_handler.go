package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"merittrack/internal/middleware"
	"merittrack/internal/service"
)

// StartBadgeRequest represents the request body for badge enrollment
type StartBadgeRequest struct {
	ScoutID uuid.UUID `json:"scout_id"`
	BadgeID uuid.UUID `json:"badge_id"`
}

// CompletionRequest represents the request body for sign-offs
type CompletionRequest struct {
	Completed bool `json:"completed"`
}

// ProgressHandler handles enrollment and sign-off requests
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// StartBadge enrolls a scout in a badge
// @Summary Start badge
// @Description Enroll a scout in a merit badge
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param enrollment body StartBadgeRequest true "Enrollment data"
// @Success 201 {object} models.ScoutBadge
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Scout or badge not found"
// @Failure 409 {object} map[string]string "Already enrolled"
// @Router /scout-badges [post]
func (h *ProgressHandler) StartBadge(w http.ResponseWriter, r *http.Request) {
	var req StartBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	sb, err := h.progressService.StartBadge(req.ScoutID, req.BadgeID, acting)
	if err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	JSONResponse(w, sb)
}

// GetProgress retrieves one enrollment with its progress tree
// @Summary Get enrollment progress
// @Description Get an enrollment joined to the badge's requirement tree with sign-off state
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Success 200 {object} models.ScoutBadgeProgress
// @Failure 404 {object} map[string]string "Enrollment not found"
// @Router /scout-badges/{id} [get]
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	progress, err := h.progressService.GetProgress(id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, progress)
}

// GetScoutProgress retrieves all enrollments of a scout with progress trees
// @Summary Get scout progress
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param id path string true "Scout ID"
// @Success 200 {array} models.ScoutBadgeProgress
// @Failure 404 {object} map[string]string "Scout not found"
// @Router /scouts/{id}/progress [get]
func (h *ProgressHandler) GetScoutProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	progress, err := h.progressService.ListScoutProgress(id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, progress)
}

// SignOffRequirement records completion state for one requirement
// @Summary Sign off requirement
// @Description Record or retract a requirement sign-off; the acting user becomes the signer
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Param requirementId path string true "Requirement ID"
// @Param completion body CompletionRequest true "Completion state"
// @Success 200 {object} models.ScoutBadgeRequirement
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Enrollment or requirement not found"
// @Failure 422 {object} map[string]string "Requirement not in enrolled badge"
// @Router /scout-badges/{id}/requirements/{requirementId} [put]
func (h *ProgressHandler) SignOffRequirement(w http.ResponseWriter, r *http.Request) {
	scoutBadgeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	requirementID, ok := pathUUID(w, r, "requirementId")
	if !ok {
		return
	}

	var req CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	entry, err := h.progressService.MarkRequirementComplete(scoutBadgeID, requirementID, req.Completed, acting)
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, entry)
}

// SignOffBadge records overall completion for an enrollment
// @Summary Sign off badge
// @Description Record or retract overall badge completion; requirement state is not rolled up
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Param completion body CompletionRequest true "Completion state"
// @Success 200 {object} models.ScoutBadge
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Enrollment not found"
// @Router /scout-badges/{id}/completion [put]
func (h *ProgressHandler) SignOffBadge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	sb, err := h.progressService.MarkBadgeComplete(id, req.Completed, acting)
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, sb)
}

// DeleteEnrollment removes an enrollment with its ledger
// @Summary Delete enrollment
// @Tags Progress
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Enrollment not found"
// @Router /scout-badges/{id} [delete]
func (h *ProgressHandler) DeleteEnrollment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	if err := h.progressService.DeleteEnrollment(id, acting); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
