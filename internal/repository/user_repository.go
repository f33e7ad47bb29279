package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, first_name, last_name, role, department_id, created_at, updated_at`

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Role,
		&user.DepartmentID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.FromStore(err, "failed to get user")
	}
	return user, nil
}

// Create inserts a user row with the externally assigned id
func (r *UserRepository) Create(user *models.User) error {
	query := `
		INSERT INTO users (id, email, first_name, last_name, role, department_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(query,
		user.ID, user.Email, user.FirstName, user.LastName, user.Role, user.DepartmentID,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return apperr.FromStore(err, "failed to create user")
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(query, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(query, email))
}

// List retrieves all users ordered by last name
func (r *UserRepository) List() ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY last_name, first_name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to list users")
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID, &user.Email, &user.FirstName, &user.LastName,
			&user.Role, &user.DepartmentID, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, apperr.FromStore(err, "failed to scan user")
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

// Update writes a user's mutable fields. updated_at is only bumped when the
// new values actually differ from the stored row.
func (r *UserRepository) Update(user *models.User) error {
	query := `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, role = $5, department_id = $6,
		    updated_at = CASE
		        WHEN (email, first_name, last_name, role, department_id)
		            IS DISTINCT FROM ($2, $3, $4, $5, $6)
		        THEN now()
		        ELSE updated_at
		    END
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRow(query,
		user.ID, user.Email, user.FirstName, user.LastName, user.Role, user.DepartmentID,
	).Scan(&user.UpdatedAt)
	if err == sql.ErrNoRows {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	if err != nil {
		return apperr.FromStore(err, "failed to update user")
	}

	return nil
}

// UpdateRole sets a user's role, bumping updated_at only on a real change
func (r *UserRepository) UpdateRole(id uuid.UUID, role string) (*models.User, error) {
	query := `
		UPDATE users
		SET role = $2,
		    updated_at = CASE WHEN role IS DISTINCT FROM $2 THEN now() ELSE updated_at END
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUser(r.db.QueryRow(query, id, role))
}

// Delete removes a user. Back-references (department heads, sign-offs) are
// nulled by the schema, not cascaded.
func (r *UserRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperr.FromStore(err, "failed to delete user")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.New(apperr.KindNotFound, "user not found")
	}
	return nil
}
