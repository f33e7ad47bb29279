package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"merittrack/internal/middleware"
	"merittrack/internal/models"
	"merittrack/internal/service"
)

// DepartmentRequest represents the request body for creating/updating departments
type DepartmentRequest struct {
	Name       string     `json:"name"`
	HeadUserID *uuid.UUID `json:"head_user_id,omitempty"`
}

// DepartmentHandler handles program area requests
type DepartmentHandler struct {
	departmentService *service.DepartmentService
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(departmentService *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departmentService: departmentService}
}

// GetAllDepartments retrieves all departments
// @Summary Get all departments
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Department
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /departments [get]
func (h *DepartmentHandler) GetAllDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.departmentService.ListDepartments()
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, departments)
}

// GetDepartmentByID retrieves a department by ID
// @Summary Get department by ID
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Success 200 {object} models.Department
// @Failure 404 {object} map[string]string "Department not found"
// @Router /departments/{id} [get]
func (h *DepartmentHandler) GetDepartmentByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	department, err := h.departmentService.GetDepartment(id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, department)
}

// CreateDepartment creates a new department
// @Summary Create department
// @Description Create a new program area (admin only)
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param department body DepartmentRequest true "Department data"
// @Success 201 {object} models.Department
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Head user not found"
// @Router /admin/departments [post]
func (h *DepartmentHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req DepartmentRequest
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

	department, err := h.departmentService.CreateDepartment(req.Name, req.HeadUserID, acting)
	if err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	JSONResponse(w, department)
}

// UpdateDepartment updates a department
// @Summary Update department
// @Description Update a program area (admin only)
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Param department body DepartmentRequest true "Updated department data"
// @Success 200 {object} models.Department
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Department not found"
// @Router /admin/departments/{id} [put]
func (h *DepartmentHandler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req DepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	department := models.Department{
		ID:         id,
		Name:       req.Name,
		HeadUserID: req.HeadUserID,
	}
	if err := h.departmentService.UpdateDepartment(&department, acting); err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, department)
}

// DeleteDepartment deletes a department
// @Summary Delete department
// @Description Delete a program area (admin only)
// @Tags Departments
// @Security BearerAuth
// @Param id path string true "Department ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Department not found"
// @Router /admin/departments/{id} [delete]
func (h *DepartmentHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	if err := h.departmentService.DeleteDepartment(id, acting); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
