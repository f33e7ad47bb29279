package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
)

// TroopRepository handles troop database operations
type TroopRepository struct {
	db *sql.DB
}

// NewTroopRepository creates a new troop repository
func NewTroopRepository(db *sql.DB) *TroopRepository {
	return &TroopRepository{db: db}
}

const troopColumns = `id, number, phone, email, type, city, state, created_at, updated_at`

func scanTroop(row *sql.Row) (*models.Troop, error) {
	troop := &models.Troop{}
	err := row.Scan(
		&troop.ID, &troop.Number, &troop.Phone, &troop.Email,
		&troop.Type, &troop.City, &troop.State, &troop.CreatedAt, &troop.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "troop not found")
	}
	if err != nil {
		return nil, apperr.FromStore(err, "failed to get troop")
	}
	return troop, nil
}

// Create inserts a troop
func (r *TroopRepository) Create(troop *models.Troop) error {
	query := `
		INSERT INTO troops (number, phone, email, type, city, state)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(query,
		troop.Number, troop.Phone, troop.Email, troop.Type, troop.City, troop.State,
	).Scan(&troop.ID, &troop.CreatedAt, &troop.UpdatedAt)
	if err != nil {
		return apperr.FromStore(err, "failed to create troop")
	}

	return nil
}

// GetByID retrieves a troop by ID
func (r *TroopRepository) GetByID(id uuid.UUID) (*models.Troop, error) {
	query := `SELECT ` + troopColumns + ` FROM troops WHERE id = $1`
	return scanTroop(r.db.QueryRow(query, id))
}

// List retrieves all troops ordered by state then number
func (r *TroopRepository) List() ([]models.Troop, error) {
	query := `SELECT ` + troopColumns + ` FROM troops ORDER BY state, number`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to list troops")
	}
	defer rows.Close()

	var troops []models.Troop
	for rows.Next() {
		var troop models.Troop
		err := rows.Scan(
			&troop.ID, &troop.Number, &troop.Phone, &troop.Email,
			&troop.Type, &troop.City, &troop.State, &troop.CreatedAt, &troop.UpdatedAt,
		)
		if err != nil {
			return nil, apperr.FromStore(err, "failed to scan troop")
		}
		troops = append(troops, troop)
	}

	return troops, rows.Err()
}

// Update writes a troop's fields, bumping updated_at only on change
func (r *TroopRepository) Update(troop *models.Troop) error {
	query := `
		UPDATE troops
		SET number = $2, phone = $3, email = $4, type = $5, city = $6, state = $7,
		    updated_at = CASE
		        WHEN (number, phone, email, type, city, state)
		            IS DISTINCT FROM ($2, $3, $4, $5, $6, $7)
		        THEN now()
		        ELSE updated_at
		    END
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(query,
		troop.ID, troop.Number, troop.Phone, troop.Email, troop.Type, troop.City, troop.State,
	).Scan(&troop.UpdatedAt)
	if err == sql.ErrNoRows {
		return apperr.New(apperr.KindNotFound, "troop not found")
	}
	if err != nil {
		return apperr.FromStore(err, "failed to update troop")
	}

	return nil
}

// Delete removes a troop. Scouts and leaders of the troop are cascaded.
func (r *TroopRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM troops WHERE id = $1`, id)
	if err != nil {
		return apperr.FromStore(err, "failed to delete troop")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.New(apperr.KindNotFound, "troop not found")
	}
	return nil
}
