package testutil

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"merittrack/internal/models"
)

// Fixtures holds a baseline data set: one user per role, a troop with two
// scouts, and a badge with a small requirement tree
type Fixtures struct {
	DB            *sql.DB
	AdminUser     *models.User
	CounselorUser *models.User
	ScoutUser     *models.User
	DirectorUser  *models.User
	Department    *models.Department
	Troop         *models.Troop
	Scouts        []models.Scout
	Badge         *models.MeritBadge
	Requirements  []models.Requirement
}

// SetupFixtures creates the baseline data set
func SetupFixtures(t *testing.T, db *sql.DB) *Fixtures {
	t.Helper()

	fixtures := &Fixtures{
		DB: db,
	}

	fixtures.AdminUser = CreateUser(t, db, "admin@camp.test", "Ada", "Admin", models.RoleAdmin)
	fixtures.CounselorUser = CreateUser(t, db, "counselor@camp.test", "Carl", "Counselor", models.RoleCounselor)
	fixtures.ScoutUser = CreateUser(t, db, "scout@camp.test", "Sam", "Scout", models.RoleScout)
	fixtures.DirectorUser = CreateUser(t, db, "director@camp.test", "Dana", "Director", models.RoleAreaDirector)

	fixtures.Department = createDepartment(t, db, "Aquatics")
	fixtures.Troop = createTroop(t, db, 101, "CA", models.TroopTypeMixed)
	fixtures.Scouts = []models.Scout{
		*createScout(t, db, "Alex", "Anderson", fixtures.Troop.ID),
		*createScout(t, db, "Blake", "Brown", fixtures.Troop.ID),
	}

	fixtures.Badge = createBadge(t, db, "Swimming", fixtures.Department.ID)
	root1 := createRequirement(t, db, fixtures.Badge.ID, "1", nil)
	root2 := createRequirement(t, db, fixtures.Badge.ID, "2", nil)
	sub1a := createRequirement(t, db, fixtures.Badge.ID, "a", &root1.ID)
	fixtures.Requirements = []models.Requirement{*root1, *root2, *sub1a}

	return fixtures
}

// CreateUser inserts a user the way the provisioning webhook would, with an
// externally assigned id
func CreateUser(t *testing.T, db *sql.DB, email, firstName, lastName, role string) *models.User {
	t.Helper()

	user := models.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}
	err := db.QueryRow(`
		INSERT INTO users (id, email, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, user.ID, user.Email, user.FirstName, user.LastName, user.Role).Scan(
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}

	return &user
}

func createDepartment(t *testing.T, db *sql.DB, name string) *models.Department {
	t.Helper()

	department := models.Department{Name: name}
	err := db.QueryRow(`
		INSERT INTO departments (name) VALUES ($1)
		RETURNING id, created_at, updated_at
	`, name).Scan(&department.ID, &department.CreatedAt, &department.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create department %s: %v", name, err)
	}

	return &department
}

func createTroop(t *testing.T, db *sql.DB, number int, state, troopType string) *models.Troop {
	t.Helper()

	troop := models.Troop{
		Number: number,
		Type:   troopType,
		City:   "Testville",
		State:  state,
	}
	err := db.QueryRow(`
		INSERT INTO troops (number, type, city, state)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, troop.Number, troop.Type, troop.City, troop.State).Scan(
		&troop.ID, &troop.CreatedAt, &troop.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create troop %d: %v", number, err)
	}

	return &troop
}

func createScout(t *testing.T, db *sql.DB, firstName, lastName string, troopID uuid.UUID) *models.Scout {
	t.Helper()

	scout := models.Scout{
		FirstName: firstName,
		LastName:  lastName,
		TroopID:   troopID,
	}
	err := db.QueryRow(`
		INSERT INTO scouts (first_name, last_name, troop_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, scout.FirstName, scout.LastName, scout.TroopID).Scan(
		&scout.ID, &scout.CreatedAt, &scout.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create scout %s %s: %v", firstName, lastName, err)
	}

	return &scout
}

func createBadge(t *testing.T, db *sql.DB, name string, departmentID uuid.UUID) *models.MeritBadge {
	t.Helper()

	badge := models.MeritBadge{
		Name:         name,
		DepartmentID: departmentID,
	}
	err := db.QueryRow(`
		INSERT INTO merit_badges (name, department_id)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, badge.Name, badge.DepartmentID).Scan(
		&badge.ID, &badge.CreatedAt, &badge.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create badge %s: %v", name, err)
	}

	return &badge
}

func createRequirement(t *testing.T, db *sql.DB, badgeID uuid.UUID, identifier string, parentID *uuid.UUID) *models.Requirement {
	t.Helper()

	rqmt := models.Requirement{
		BadgeID:             badgeID,
		Identifier:          identifier,
		Description:         "Requirement " + identifier,
		ParentRequirementID: parentID,
	}
	err := db.QueryRow(`
		INSERT INTO requirements (badge_id, identifier, description, parent_requirement_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, rqmt.BadgeID, rqmt.Identifier, rqmt.Description, rqmt.ParentRequirementID).Scan(
		&rqmt.ID, &rqmt.CreatedAt, &rqmt.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("Failed to create requirement %s: %v", identifier, err)
	}

	return &rqmt
}

// CreateEnrollment opens a scout_badges row directly
func (f *Fixtures) CreateEnrollment(t *testing.T, scoutID, badgeID uuid.UUID) *models.ScoutBadge {
	t.Helper()

	sb := models.ScoutBadge{
		ScoutID: scoutID,
		BadgeID: &badgeID,
	}
	err := f.DB.QueryRow(`
		INSERT INTO scout_badges (scout_id, badge_id)
		VALUES ($1, $2)
		RETURNING id, completed, created_at, updated_at
	`, sb.ScoutID, sb.BadgeID).Scan(&sb.ID, &sb.Completed, &sb.CreatedAt, &sb.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create enrollment: %v", err)
	}

	return &sb
}
