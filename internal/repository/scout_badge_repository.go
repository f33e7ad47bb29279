package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
)

// ScoutBadgeRepository handles the progress ledger: per-scout badge
// enrollments and their per-requirement completion rows
type ScoutBadgeRepository struct {
	db *sql.DB
}

// NewScoutBadgeRepository creates a new scout badge repository
func NewScoutBadgeRepository(db *sql.DB) *ScoutBadgeRepository {
	return &ScoutBadgeRepository{db: db}
}

const scoutBadgeColumns = `id, scout_id, badge_id, completed, signed_by_id, created_at, updated_at`

func scanScoutBadge(row *sql.Row) (*models.ScoutBadge, error) {
	sb := &models.ScoutBadge{}
	err := row.Scan(
		&sb.ID, &sb.ScoutID, &sb.BadgeID, &sb.Completed,
		&sb.SignedByID, &sb.CreatedAt, &sb.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "scout badge not found")
	}
	if err != nil {
		return nil, apperr.FromStore(err, "failed to get scout badge")
	}
	return sb, nil
}

// Create enrolls a scout in a badge. The unique (scout_id, badge_id) pair
// resolves racing duplicate enrollments: the second writer fails with
// Conflict rather than silently overwriting.
func (r *ScoutBadgeRepository) Create(sb *models.ScoutBadge) error {
	query := `
		INSERT INTO scout_badges (scout_id, badge_id)
		VALUES ($1, $2)
		RETURNING id, completed, created_at, updated_at
	`

	err := r.db.QueryRow(query, sb.ScoutID, sb.BadgeID).
		Scan(&sb.ID, &sb.Completed, &sb.CreatedAt, &sb.UpdatedAt)
	if err != nil {
		return apperr.FromStore(err, "failed to create scout badge")
	}

	return nil
}

// GetByID retrieves an enrollment by ID
func (r *ScoutBadgeRepository) GetByID(id uuid.UUID) (*models.ScoutBadge, error) {
	query := `SELECT ` + scoutBadgeColumns + ` FROM scout_badges WHERE id = $1`
	return scanScoutBadge(r.db.QueryRow(query, id))
}

// GetByScoutAndBadge retrieves the enrollment for one (scout, badge) pair
func (r *ScoutBadgeRepository) GetByScoutAndBadge(scoutID, badgeID uuid.UUID) (*models.ScoutBadge, error) {
	query := `SELECT ` + scoutBadgeColumns + ` FROM scout_badges WHERE scout_id = $1 AND badge_id = $2`
	return scanScoutBadge(r.db.QueryRow(query, scoutID, badgeID))
}

// ListByScout retrieves all enrollments of a scout
func (r *ScoutBadgeRepository) ListByScout(scoutID uuid.UUID) ([]models.ScoutBadge, error) {
	query := `SELECT ` + scoutBadgeColumns + ` FROM scout_badges WHERE scout_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(query, scoutID)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to list scout badges")
	}
	defer rows.Close()

	var badges []models.ScoutBadge
	for rows.Next() {
		var sb models.ScoutBadge
		err := rows.Scan(
			&sb.ID, &sb.ScoutID, &sb.BadgeID, &sb.Completed,
			&sb.SignedByID, &sb.CreatedAt, &sb.UpdatedAt,
		)
		if err != nil {
			return nil, apperr.FromStore(err, "failed to scan scout badge")
		}
		badges = append(badges, sb)
	}

	return badges, rows.Err()
}

// SetCompletion sets the enrollment's completion and signer. There is no
// roll-up from requirement rows; completion is an explicit staff decision.
func (r *ScoutBadgeRepository) SetCompletion(id uuid.UUID, completed bool, signedByID *uuid.UUID) (*models.ScoutBadge, error) {
	query := `
		UPDATE scout_badges
		SET completed = $2, signed_by_id = $3,
		    updated_at = CASE
		        WHEN (completed, signed_by_id) IS DISTINCT FROM ($2, $3)
		        THEN now()
		        ELSE updated_at
		    END
		WHERE id = $1
		RETURNING ` + scoutBadgeColumns

	return scanScoutBadge(r.db.QueryRow(query, id, completed, signedByID))
}

const sbrColumns = `id, scout_badge_id, requirement_id, completed, signed_by_id, created_at, updated_at`

// UpsertRequirement creates the per-requirement ledger row if absent, else
// updates it in place. updated_at moves only when the values change.
func (r *ScoutBadgeRepository) UpsertRequirement(entry *models.ScoutBadgeRequirement) error {
	query := `
		INSERT INTO scout_badge_requirements (scout_badge_id, requirement_id, completed, signed_by_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (scout_badge_id, requirement_id) DO UPDATE
		SET completed = EXCLUDED.completed,
		    signed_by_id = EXCLUDED.signed_by_id,
		    updated_at = CASE
		        WHEN (scout_badge_requirements.completed, scout_badge_requirements.signed_by_id)
		            IS DISTINCT FROM (EXCLUDED.completed, EXCLUDED.signed_by_id)
		        THEN now()
		        ELSE scout_badge_requirements.updated_at
		    END
		RETURNING ` + sbrColumns

	err := r.db.QueryRow(query,
		entry.ScoutBadgeID, entry.RequirementID, entry.Completed, entry.SignedByID,
	).Scan(
		&entry.ID, &entry.ScoutBadgeID, &entry.RequirementID,
		&entry.Completed, &entry.SignedByID, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return apperr.FromStore(err, "failed to record requirement completion")
	}

	return nil
}

// ListRequirementEntries retrieves all per-requirement ledger rows of one
// enrollment
func (r *ScoutBadgeRepository) ListRequirementEntries(scoutBadgeID uuid.UUID) ([]models.ScoutBadgeRequirement, error) {
	query := `SELECT ` + sbrColumns + ` FROM scout_badge_requirements WHERE scout_badge_id = $1`

	rows, err := r.db.Query(query, scoutBadgeID)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to list requirement entries")
	}
	defer rows.Close()

	var entries []models.ScoutBadgeRequirement
	for rows.Next() {
		var entry models.ScoutBadgeRequirement
		err := rows.Scan(
			&entry.ID, &entry.ScoutBadgeID, &entry.RequirementID,
			&entry.Completed, &entry.SignedByID, &entry.CreatedAt, &entry.UpdatedAt,
		)
		if err != nil {
			return nil, apperr.FromStore(err, "failed to scan requirement entry")
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Delete removes an enrollment and its requirement rows
func (r *ScoutBadgeRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM scout_badges WHERE id = $1`, id)
	if err != nil {
		return apperr.FromStore(err, "failed to delete scout badge")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.New(apperr.KindNotFound, "scout badge not found")
	}
	return nil
}
