package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
)

// ActivityRepository handles scheduled activity database operations
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityColumns = `id, name, date, start_time::text, duration_minutes, badge_id, created_at, updated_at`

func scanActivity(row *sql.Row) (*models.Activity, error) {
	activity := &models.Activity{}
	err := row.Scan(
		&activity.ID, &activity.Name, &activity.Date, &activity.StartTime,
		&activity.DurationMinutes, &activity.BadgeID, &activity.CreatedAt, &activity.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "activity not found")
	}
	if err != nil {
		return nil, apperr.FromStore(err, "failed to get activity")
	}
	return activity, nil
}

// Create inserts an activity
func (r *ActivityRepository) Create(activity *models.Activity) error {
	query := `
		INSERT INTO activities (name, date, start_time, duration_minutes, badge_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(query,
		activity.Name, activity.Date, activity.StartTime, activity.DurationMinutes, activity.BadgeID,
	).Scan(&activity.ID, &activity.CreatedAt, &activity.UpdatedAt)
	if err != nil {
		return apperr.FromStore(err, "failed to create activity")
	}

	return nil
}

// GetByID retrieves an activity by ID
func (r *ActivityRepository) GetByID(id uuid.UUID) (*models.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`
	return scanActivity(r.db.QueryRow(query, id))
}

// ListByDateRange retrieves activities scheduled within [from, to]
func (r *ActivityRepository) ListByDateRange(from, to time.Time) ([]models.Activity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE date >= $1 AND date <= $2
		ORDER BY date, start_time
	`

	rows, err := r.db.Query(query, from, to)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to list activities")
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var activity models.Activity
		err := rows.Scan(
			&activity.ID, &activity.Name, &activity.Date, &activity.StartTime,
			&activity.DurationMinutes, &activity.BadgeID, &activity.CreatedAt, &activity.UpdatedAt,
		)
		if err != nil {
			return nil, apperr.FromStore(err, "failed to scan activity")
		}
		activities = append(activities, activity)
	}

	return activities, rows.Err()
}

// Update writes an activity's fields, bumping updated_at only on change
func (r *ActivityRepository) Update(activity *models.Activity) error {
	query := `
		UPDATE activities
		SET name = $2, date = $3, start_time = $4, duration_minutes = $5, badge_id = $6,
		    updated_at = CASE
		        WHEN (name, date, start_time::text, duration_minutes, badge_id)
		            IS DISTINCT FROM ($2, $3, $4::time::text, $5, $6)
		        THEN now()
		        ELSE updated_at
		    END
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(query,
		activity.ID, activity.Name, activity.Date, activity.StartTime,
		activity.DurationMinutes, activity.BadgeID,
	).Scan(&activity.UpdatedAt)
	if err == sql.ErrNoRows {
		return apperr.New(apperr.KindNotFound, "activity not found")
	}
	if err != nil {
		return apperr.FromStore(err, "failed to update activity")
	}

	return nil
}

// Delete removes an activity
func (r *ActivityRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return apperr.FromStore(err, "failed to delete activity")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.New(apperr.KindNotFound, "activity not found")
	}
	return nil
}
