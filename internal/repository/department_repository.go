package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
)

// DepartmentRepository handles department database operations
type DepartmentRepository struct {
	db *sql.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *sql.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

const departmentColumns = `id, name, head_user_id, created_at, updated_at`

func scanDepartment(row *sql.Row) (*models.Department, error) {
	dpmt := &models.Department{}
	err := row.Scan(&dpmt.ID, &dpmt.Name, &dpmt.HeadUserID, &dpmt.CreatedAt, &dpmt.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "department not found")
	}
	if err != nil {
		return nil, apperr.FromStore(err, "failed to get department")
	}
	return dpmt, nil
}

// Create inserts a department
func (r *DepartmentRepository) Create(dpmt *models.Department) error {
	query := `
		INSERT INTO departments (name, head_user_id)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(query, dpmt.Name, dpmt.HeadUserID).
		Scan(&dpmt.ID, &dpmt.CreatedAt, &dpmt.UpdatedAt)
	if err != nil {
		return apperr.FromStore(err, "failed to create department")
	}

	return nil
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(id uuid.UUID) (*models.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE id = $1`
	return scanDepartment(r.db.QueryRow(query, id))
}

// GetByName retrieves a department by its unique name
func (r *DepartmentRepository) GetByName(name string) (*models.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments WHERE name = $1`
	return scanDepartment(r.db.QueryRow(query, name))
}

// List retrieves all departments ordered by name
func (r *DepartmentRepository) List() ([]models.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM departments ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to list departments")
	}
	defer rows.Close()

	var departments []models.Department
	for rows.Next() {
		var dpmt models.Department
		if err := rows.Scan(&dpmt.ID, &dpmt.Name, &dpmt.HeadUserID, &dpmt.CreatedAt, &dpmt.UpdatedAt); err != nil {
			return nil, apperr.FromStore(err, "failed to scan department")
		}
		departments = append(departments, dpmt)
	}

	return departments, rows.Err()
}

// Update writes a department's fields, bumping updated_at only on change
func (r *DepartmentRepository) Update(dpmt *models.Department) error {
	query := `
		UPDATE departments
		SET name = $2, head_user_id = $3,
		    updated_at = CASE
		        WHEN (name, head_user_id) IS DISTINCT FROM ($2, $3)
		        THEN now()
		        ELSE updated_at
		    END
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(query, dpmt.ID, dpmt.Name, dpmt.HeadUserID).Scan(&dpmt.UpdatedAt)
	if err == sql.ErrNoRows {
		return apperr.New(apperr.KindNotFound, "department not found")
	}
	if err != nil {
		return apperr.FromStore(err, "failed to update department")
	}

	return nil
}

// Delete removes a department. Fails while merit badges still reference it.
func (r *DepartmentRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return apperr.FromStore(err, "failed to delete department")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.New(apperr.KindNotFound, "department not found")
	}
	return nil
}
