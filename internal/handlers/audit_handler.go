package handlers

import (
	"net/http"
	"strconv"

	"merittrack/internal/middleware"
	"merittrack/internal/service"
)

// AuditHandler handles audit log requests
type AuditHandler struct {
	identityService *service.IdentityService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(identityService *service.IdentityService) *AuditHandler {
	return &AuditHandler{identityService: identityService}
}

// GetAuditLogs retrieves recent audit log entries
// @Summary Get audit logs
// @Description Get recent audit entries, newest first (admin only)
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries (default 100, cap 500)"
// @Param offset query int false "Entries to skip"
// @Success 200 {array} models.AuditLog
// @Failure 403 {object} map[string]string "Permission denied"
// @Router /admin/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	acting, ok := middleware.GetUser(r)
	if !ok {
		http.Error(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	logs, err := h.identityService.ListAuditLogs(limit, offset, acting)
	if err != nil {
		errorResponse(w, err)
		return
	}

	JSONResponse(w, logs)
}
