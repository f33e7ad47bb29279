package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
)

// BadgeRepository handles merit badge database operations
type BadgeRepository struct {
	db *sql.DB
}

// NewBadgeRepository creates a new merit badge repository
func NewBadgeRepository(db *sql.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

const badgeColumns = `id, name, description, is_eagle_required, department_id, created_at, updated_at`

func scanBadge(row *sql.Row) (*models.MeritBadge, error) {
	badge := &models.MeritBadge{}
	err := row.Scan(
		&badge.ID, &badge.Name, &badge.Description, &badge.IsEagleRequired,
		&badge.DepartmentID, &badge.CreatedAt, &badge.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "merit badge not found")
	}
	if err != nil {
		return nil, apperr.FromStore(err, "failed to get merit badge")
	}
	return badge, nil
}

// Create inserts a merit badge
func (r *BadgeRepository) Create(badge *models.MeritBadge) error {
	query := `
		INSERT INTO merit_badges (name, description, is_eagle_required, department_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(query,
		badge.Name, badge.Description, badge.IsEagleRequired, badge.DepartmentID,
	).Scan(&badge.ID, &badge.CreatedAt, &badge.UpdatedAt)
	if err != nil {
		return apperr.FromStore(err, "failed to create merit badge")
	}

	return nil
}

// GetByID retrieves a merit badge by ID
func (r *BadgeRepository) GetByID(id uuid.UUID) (*models.MeritBadge, error) {
	query := `SELECT ` + badgeColumns + ` FROM merit_badges WHERE id = $1`
	return scanBadge(r.db.QueryRow(query, id))
}

// GetByName retrieves a merit badge by its unique name
func (r *BadgeRepository) GetByName(name string) (*models.MeritBadge, error) {
	query := `SELECT ` + badgeColumns + ` FROM merit_badges WHERE name = $1`
	return scanBadge(r.db.QueryRow(query, name))
}

// List retrieves all merit badges ordered by name
func (r *BadgeRepository) List() ([]models.MeritBadge, error) {
	return r.list(`SELECT `+badgeColumns+` FROM merit_badges ORDER BY name`)
}

// ListByDepartment retrieves all merit badges of one department
func (r *BadgeRepository) ListByDepartment(departmentID uuid.UUID) ([]models.MeritBadge, error) {
	return r.list(`SELECT `+badgeColumns+` FROM merit_badges WHERE department_id = $1 ORDER BY name`, departmentID)
}

func (r *BadgeRepository) list(query string, args ...interface{}) ([]models.MeritBadge, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to list merit badges")
	}
	defer rows.Close()

	var badges []models.MeritBadge
	for rows.Next() {
		var badge models.MeritBadge
		err := rows.Scan(
			&badge.ID, &badge.Name, &badge.Description, &badge.IsEagleRequired,
			&badge.DepartmentID, &badge.CreatedAt, &badge.UpdatedAt,
		)
		if err != nil {
			return nil, apperr.FromStore(err, "failed to scan merit badge")
		}
		badges = append(badges, badge)
	}

	return badges, rows.Err()
}

// Update writes a badge's fields, bumping updated_at only on change
func (r *BadgeRepository) Update(badge *models.MeritBadge) error {
	query := `
		UPDATE merit_badges
		SET name = $2, description = $3, is_eagle_required = $4, department_id = $5,
		    updated_at = CASE
		        WHEN (name, description, is_eagle_required, department_id)
		            IS DISTINCT FROM ($2, $3, $4, $5)
		        THEN now()
		        ELSE updated_at
		    END
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(query,
		badge.ID, badge.Name, badge.Description, badge.IsEagleRequired, badge.DepartmentID,
	).Scan(&badge.UpdatedAt)
	if err == sql.ErrNoRows {
		return apperr.New(apperr.KindNotFound, "merit badge not found")
	}
	if err != nil {
		return apperr.FromStore(err, "failed to update merit badge")
	}

	return nil
}

// Delete removes a badge and, per schema, its entire requirement tree in one
// atomic operation. Enrollments keep their rows with the badge link nulled.
func (r *BadgeRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM merit_badges WHERE id = $1`, id)
	if err != nil {
		return apperr.FromStore(err, "failed to delete merit badge")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.New(apperr.KindNotFound, "merit badge not found")
	}
	return nil
}
