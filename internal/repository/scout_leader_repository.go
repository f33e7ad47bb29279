package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
)

// ScoutLeaderRepository handles scout leader database operations
type ScoutLeaderRepository struct {
	db *sql.DB
}

// NewScoutLeaderRepository creates a new scout leader repository
func NewScoutLeaderRepository(db *sql.DB) *ScoutLeaderRepository {
	return &ScoutLeaderRepository{db: db}
}

const leaderColumns = `id, first_name, last_name, troop_id, phone, email, created_at, updated_at`

func scanLeader(row *sql.Row) (*models.ScoutLeader, error) {
	leader := &models.ScoutLeader{}
	err := row.Scan(
		&leader.ID, &leader.FirstName, &leader.LastName, &leader.TroopID,
		&leader.Phone, &leader.Email, &leader.CreatedAt, &leader.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "scout leader not found")
	}
	if err != nil {
		return nil, apperr.FromStore(err, "failed to get scout leader")
	}
	return leader, nil
}

// Create inserts a scout leader
func (r *ScoutLeaderRepository) Create(leader *models.ScoutLeader) error {
	query := `
		INSERT INTO scout_leaders (first_name, last_name, troop_id, phone, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(query,
		leader.FirstName, leader.LastName, leader.TroopID, leader.Phone, leader.Email,
	).Scan(&leader.ID, &leader.CreatedAt, &leader.UpdatedAt)
	if err != nil {
		return apperr.FromStore(err, "failed to create scout leader")
	}

	return nil
}

// GetByID retrieves a scout leader by ID
func (r *ScoutLeaderRepository) GetByID(id uuid.UUID) (*models.ScoutLeader, error) {
	query := `SELECT ` + leaderColumns + ` FROM scout_leaders WHERE id = $1`
	return scanLeader(r.db.QueryRow(query, id))
}

// ListByTroop retrieves all leaders of a troop
func (r *ScoutLeaderRepository) ListByTroop(troopID uuid.UUID) ([]models.ScoutLeader, error) {
	query := `SELECT ` + leaderColumns + ` FROM scout_leaders WHERE troop_id = $1 ORDER BY last_name, first_name`

	rows, err := r.db.Query(query, troopID)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to list scout leaders")
	}
	defer rows.Close()

	var leaders []models.ScoutLeader
	for rows.Next() {
		var leader models.ScoutLeader
		err := rows.Scan(
			&leader.ID, &leader.FirstName, &leader.LastName, &leader.TroopID,
			&leader.Phone, &leader.Email, &leader.CreatedAt, &leader.UpdatedAt,
		)
		if err != nil {
			return nil, apperr.FromStore(err, "failed to scan scout leader")
		}
		leaders = append(leaders, leader)
	}

	return leaders, rows.Err()
}

// Update writes a leader's fields, bumping updated_at only on change
func (r *ScoutLeaderRepository) Update(leader *models.ScoutLeader) error {
	query := `
		UPDATE scout_leaders
		SET first_name = $2, last_name = $3, troop_id = $4, phone = $5, email = $6,
		    updated_at = CASE
		        WHEN (first_name, last_name, troop_id, phone, email)
		            IS DISTINCT FROM ($2, $3, $4, $5, $6)
		        THEN now()
		        ELSE updated_at
		    END
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(query,
		leader.ID, leader.FirstName, leader.LastName, leader.TroopID, leader.Phone, leader.Email,
	).Scan(&leader.UpdatedAt)
	if err == sql.ErrNoRows {
		return apperr.New(apperr.KindNotFound, "scout leader not found")
	}
	if err != nil {
		return apperr.FromStore(err, "failed to update scout leader")
	}

	return nil
}

// Delete removes a scout leader
func (r *ScoutLeaderRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM scout_leaders WHERE id = $1`, id)
	if err != nil {
		return apperr.FromStore(err, "failed to delete scout leader")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.New(apperr.KindNotFound, "scout leader not found")
	}
	return nil
}
