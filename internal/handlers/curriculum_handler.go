package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"merittrack/internal/middleware"
	"merittrack/internal/models"
	"merittrack/internal/service"
)

// BadgeRequest represents the request body for creating/updating badges
type BadgeRequest struct {
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	IsEagleRequired bool      `json:"is_eagle_required"`
	DepartmentID    uuid.UUID `json:"department_id"`
}

// RequirementRequest represents the request body for creating/updating requirements
type RequirementRequest struct {
	Identifier          string     `json:"identifier"`
	Description         string     `json:"description"`
	ParentRequirementID *uuid.UUID `json:"parent_requirement_id,omitempty"`
}

// CurriculumHandler handles merit badge and requirement requests
type CurriculumHandler struct {
	curriculumService *service.CurriculumService
}

// NewCurriculumHandler creates a new curriculum handler
func NewCurriculumHandler(curriculumService *service.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{curriculumService: curriculumService}
}

// GetAllBadges retrieves all merit badges
// @Summary Get all badges
// @Tags Curriculum
// @Produce json
// @Security BearerAuth
// @Param department query string false "Filter by department ID"
// @Success 200 {array} models.MeritBadge
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /badges [get]
func (h *CurriculumHandler) GetAllBadges(w http.ResponseWriter, r *http.Request) {
	if deptStr := r.URL.Query().Get("department"); deptStr != "" {
		deptID, err := uuid.Parse(deptStr)
		if err != nil {
			http.Error(w, "Invalid department ID", http.StatusBadRequest)
			return
		}
		badges, err := h.curriculumService.ListBadgesByDepartment(deptID)
		if err != nil {
			errorResponse(w, err)
			return
		}
		JSONResponse(w, badges)
		return
	}

	badges, err := h.curriculumService.ListBadges()
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, badges)
}

// GetBadgeByID retrieves a badge with its full requirement tree
// @Summary Get badge by ID
// @Description Get a badge with its nested requirement tree
// @Tags Curriculum
// @Produce json
// @Security BearerAuth
// @Param id path string true "Badge ID"
// @Success 200 {object} models.BadgeWithRequirements
// @Failure 404 {object} map[string]string "Badge not found"
// @Router /badges/{id} [get]
func (h *CurriculumHandler) GetBadgeByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	badge, err := h.curriculumService.GetBadgeTree(id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, badge)
}

// CreateBadge creates a new merit badge
// @Summary Create badge
// @Description Create a merit badge under a department (admin only)
// @Tags Curriculum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param badge body BadgeRequest true "Badge data"
// @Success 201 {object} models.MeritBadge
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Department not found"
// @Failure 409 {object} map[string]string "Badge name taken"
// @Router /admin/badges [post]
func (h *CurriculumHandler) CreateBadge(w http.ResponseWriter, r *http.Request) {
	var req BadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	badge := models.MeritBadge{
		Name:            req.Name,
		Description:     req.Description,
		IsEagleRequired: req.IsEagleRequired,
		DepartmentID:    req.DepartmentID,
	}
	if err := h.curriculumService.CreateBadge(&badge, acting); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	JSONResponse(w, badge)
}

// UpdateBadge updates a merit badge
// @Summary Update badge
// @Tags Curriculum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Badge ID"
// @Param badge body BadgeRequest true "Updated badge data"
// @Success 200 {object} models.MeritBadge
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Badge not found"
// @Router /admin/badges/{id} [put]
func (h *CurriculumHandler) UpdateBadge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req BadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	badge := models.MeritBadge{
		ID:              id,
		Name:            req.Name,
		Description:     req.Description,
		IsEagleRequired: req.IsEagleRequired,
		DepartmentID:    req.DepartmentID,
	}
	if err := h.curriculumService.UpdateBadge(&badge, acting); err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, badge)
}

// DeleteBadge deletes a badge and its requirement tree
// @Summary Delete badge
// @Description Delete a badge; earned enrollments survive with the badge reference nulled
// @Tags Curriculum
// @Security BearerAuth
// @Param id path string true "Badge ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Badge not found"
// @Router /admin/badges/{id} [delete]
func (h *CurriculumHandler) DeleteBadge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	if err := h.curriculumService.DeleteBadge(id, acting); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateRequirement adds a requirement to a badge
// @Summary Create requirement
// @Description Add a requirement node to a badge's tree (admin only)
// @Tags Curriculum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Badge ID"
// @Param requirement body RequirementRequest true "Requirement data"
// @Success 201 {object} models.Requirement
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Badge not found"
// @Failure 409 {object} map[string]string "Identifier taken among siblings"
// @Failure 422 {object} map[string]string "Parent missing or in another badge"
// @Router /admin/badges/{id}/requirements [post]
func (h *CurriculumHandler) CreateRequirement(w http.ResponseWriter, r *http.Request) {
	badgeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req RequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Identifier == "" {
		http.Error(w, "identifier is required", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	rqmt := models.Requirement{
		BadgeID:             badgeID,
		Identifier:          req.Identifier,
		Description:         req.Description,
		ParentRequirementID: req.ParentRequirementID,
	}
	if err := h.curriculumService.CreateRequirement(&rqmt, acting); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	JSONResponse(w, rqmt)
}

// UpdateRequirement updates a requirement
// @Summary Update requirement
// @Description Update a requirement; re-parenting is validated against the badge tree
// @Tags Curriculum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Badge ID"
// @Param requirementId path string true "Requirement ID"
// @Param requirement body RequirementRequest true "Updated requirement data"
// @Success 200 {object} models.Requirement
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Requirement not found"
// @Failure 422 {object} map[string]string "Parent missing or in another badge"
// @Router /admin/badges/{id}/requirements/{requirementId} [put]
func (h *CurriculumHandler) UpdateRequirement(w http.ResponseWriter, r *http.Request) {
	badgeID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	requirementID, ok := pathUUID(w, r, "requirementId")
	if !ok {
		return
	}

	var req RequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	rqmt := models.Requirement{
		ID:                  requirementID,
		BadgeID:             badgeID,
		Identifier:          req.Identifier,
		Description:         req.Description,
		ParentRequirementID: req.ParentRequirementID,
	}
	if err := h.curriculumService.UpdateRequirement(&rqmt, acting); err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, rqmt)
}

// DeleteRequirement deletes a requirement and its sub-tree
// @Summary Delete requirement
// @Tags Curriculum
// @Security BearerAuth
// @Param id path string true "Badge ID"
// @Param requirementId path string true "Requirement ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Requirement not found"
// @Router /admin/badges/{id}/requirements/{requirementId} [delete]
func (h *CurriculumHandler) DeleteRequirement(w http.ResponseWriter, r *http.Request) {
	if _, ok := pathUUID(w, r, "id"); !ok {
		return
	}
	requirementID, ok := pathUUID(w, r, "requirementId")
	if !ok {
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	if err := h.curriculumService.DeleteRequirement(requirementID, acting); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
