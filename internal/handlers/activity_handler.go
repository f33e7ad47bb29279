package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"merittrack/internal/middleware"
	"merittrack/internal/models"
	"merittrack/internal/service"
)

// ActivityRequest represents the request body for creating/updating activities
type ActivityRequest struct {
	Name            string     `json:"name"`
	Date            string     `json:"date"`       // YYYY-MM-DD
	StartTime       string     `json:"start_time"` // HH:MM:SS
	DurationMinutes int        `json:"duration_minutes"`
	BadgeID         *uuid.UUID `json:"badge_id,omitempty"`
}

// ActivityHandler handles schedule requests
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

func (req *ActivityRequest) toModel(id uuid.UUID) (*models.Activity, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}
	return &models.Activity{
		ID:              id,
		Name:            req.Name,
		Date:            date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		BadgeID:         req.BadgeID,
	}, nil
}

// GetActivities retrieves activities within a date range
// @Summary Get activities
// @Description Get activities between from and to dates, inclusive
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {array} models.Activity
// @Failure 400 {object} map[string]string "Invalid range"
// @Router /activities [get]
func (h *ActivityHandler) GetActivities(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "Invalid from date format (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "Invalid to date format (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	activities, err := h.activityService.ListActivities(from, to)
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, activities)
}

// GetActivityByID retrieves an activity by ID
// @Summary Get activity by ID
// @Tags Activities
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 200 {object} models.Activity
// @Failure 404 {object} map[string]string "Activity not found"
// @Router /activities/{id} [get]
func (h *ActivityHandler) GetActivityByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	activity, err := h.activityService.GetActivity(id)
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, activity)
}

// CreateActivity schedules a new activity
// @Summary Create activity
// @Tags Activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param activity body ActivityRequest true "Activity data"
// @Success 201 {object} models.Activity
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Badge not found"
// @Failure 422 {object} map[string]string "Invalid time or duration"
// @Router /activities [post]
func (h *ActivityHandler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	activity, err := req.toModel(uuid.Nil)
	if err != nil {
		http.Error(w, "Invalid date format (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	if err := h.activityService.CreateActivity(activity, acting); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	JSONResponse(w, activity)
}

// UpdateActivity updates an activity
// @Summary Update activity
// @Tags Activities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Param activity body ActivityRequest true "Updated activity data"
// @Success 200 {object} models.Activity
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Activity not found"
// @Failure 422 {object} map[string]string "Invalid time or duration"
// @Router /activities/{id} [put]
func (h *ActivityHandler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req ActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	activity, err := req.toModel(id)
	if err != nil {
		http.Error(w, "Invalid date format (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	if err := h.activityService.UpdateActivity(activity, acting); err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, activity)
}

// DeleteActivity removes an activity
// @Summary Delete activity
// @Tags Activities
// @Security BearerAuth
// @Param id path string true "Activity ID"
// @Success 204 "No Content"
// @Failure 403 {object} map[string]string "Permission denied"
// @Failure 404 {object} map[string]string "Activity not found"
// @Router /activities/{id} [delete]
func (h *ActivityHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	if err := h.activityService.DeleteActivity(id, acting); err != nil {
		errorResponse(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
