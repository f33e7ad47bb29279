package repository

import (
	"database/sql"
	"log/slog"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
)

// AuditRepository handles audit log database operations
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create records an audit entry. Audit failures are logged, never allowed to
// fail the mutation they describe.
func (r *AuditRepository) Create(entry *models.AuditLog) {
	query := `
		INSERT INTO audit_logs (user_id, user_email, action, resource, details)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.db.Exec(query, entry.UserID, entry.UserEmail, entry.Action, entry.Resource, entry.Details); err != nil {
		slog.Error("Failed to write audit log", "action", entry.Action, "resource", entry.Resource, "error", err)
	}
}

// List retrieves audit entries, newest first
func (r *AuditRepository) List(limit, offset int) ([]models.AuditLog, error) {
	query := `
		SELECT id, user_id, user_email, action, resource, details, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to list audit logs")
	}
	defer rows.Close()

	var entries []models.AuditLog
	for rows.Next() {
		var entry models.AuditLog
		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.UserEmail,
			&entry.Action, &entry.Resource, &entry.Details, &entry.CreatedAt,
		)
		if err != nil {
			return nil, apperr.FromStore(err, "failed to scan audit log")
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
