package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
)

// ScoutRepository handles scout database operations
type ScoutRepository struct {
	db *sql.DB
}

// NewScoutRepository creates a new scout repository
func NewScoutRepository(db *sql.DB) *ScoutRepository {
	return &ScoutRepository{db: db}
}

const scoutColumns = `id, first_name, last_name, troop_id, created_at, updated_at`

func scanScout(row *sql.Row) (*models.Scout, error) {
	scout := &models.Scout{}
	err := row.Scan(
		&scout.ID, &scout.FirstName, &scout.LastName,
		&scout.TroopID, &scout.CreatedAt, &scout.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "scout not found")
	}
	if err != nil {
		return nil, apperr.FromStore(err, "failed to get scout")
	}
	return scout, nil
}

// Create inserts a scout
func (r *ScoutRepository) Create(scout *models.Scout) error {
	query := `
		INSERT INTO scouts (first_name, last_name, troop_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(query, scout.FirstName, scout.LastName, scout.TroopID).
		Scan(&scout.ID, &scout.CreatedAt, &scout.UpdatedAt)
	if err != nil {
		return apperr.FromStore(err, "failed to create scout")
	}

	return nil
}

// GetByID retrieves a scout by ID
func (r *ScoutRepository) GetByID(id uuid.UUID) (*models.Scout, error) {
	query := `SELECT ` + scoutColumns + ` FROM scouts WHERE id = $1`
	return scanScout(r.db.QueryRow(query, id))
}

// ListByTroop retrieves all scouts of a troop
func (r *ScoutRepository) ListByTroop(troopID uuid.UUID) ([]models.Scout, error) {
	query := `SELECT ` + scoutColumns + ` FROM scouts WHERE troop_id = $1 ORDER BY last_name, first_name`

	rows, err := r.db.Query(query, troopID)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to list scouts")
	}
	defer rows.Close()

	var scouts []models.Scout
	for rows.Next() {
		var scout models.Scout
		err := rows.Scan(
			&scout.ID, &scout.FirstName, &scout.LastName,
			&scout.TroopID, &scout.CreatedAt, &scout.UpdatedAt,
		)
		if err != nil {
			return nil, apperr.FromStore(err, "failed to scan scout")
		}
		scouts = append(scouts, scout)
	}

	return scouts, rows.Err()
}

// Update writes a scout's fields, bumping updated_at only on change
func (r *ScoutRepository) Update(scout *models.Scout) error {
	query := `
		UPDATE scouts
		SET first_name = $2, last_name = $3, troop_id = $4,
		    updated_at = CASE
		        WHEN (first_name, last_name, troop_id) IS DISTINCT FROM ($2, $3, $4)
		        THEN now()
		        ELSE updated_at
		    END
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(query, scout.ID, scout.FirstName, scout.LastName, scout.TroopID).
		Scan(&scout.UpdatedAt)
	if err == sql.ErrNoRows {
		return apperr.New(apperr.KindNotFound, "scout not found")
	}
	if err != nil {
		return apperr.FromStore(err, "failed to update scout")
	}

	return nil
}

// Delete removes a scout and, per schema, their whole progress ledger
func (r *ScoutRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM scouts WHERE id = $1`, id)
	if err != nil {
		return apperr.FromStore(err, "failed to delete scout")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.New(apperr.KindNotFound, "scout not found")
	}
	return nil
}
