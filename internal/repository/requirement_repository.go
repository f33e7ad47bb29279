package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
)

// RequirementRepository handles requirement database operations. The
// hierarchy guard runs inside the same transaction as the row write: either
// the write and its validation both commit, or neither does.
type RequirementRepository struct {
	db *sql.DB
}

// NewRequirementRepository creates a new requirement repository
func NewRequirementRepository(db *sql.DB) *RequirementRepository {
	return &RequirementRepository{db: db}
}

const requirementColumns = `id, badge_id, identifier, description, parent_requirement_id, created_at, updated_at`

// validateParent enforces the hierarchy invariant: a non-nil parent must
// exist and belong to the same badge as the new row. Cross-badge grafting
// would corrupt progress rollups.
func validateParent(tx *sql.Tx, badgeID uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}

	var parentBadgeID uuid.UUID
	err := tx.QueryRow(`SELECT badge_id FROM requirements WHERE id = $1`, *parentID).Scan(&parentBadgeID)
	if err == sql.ErrNoRows {
		return apperr.New(apperr.KindInvalidReference, "parent requirement does not exist")
	}
	if err != nil {
		return apperr.FromStore(err, "failed to look up parent requirement")
	}

	if parentBadgeID != badgeID {
		return apperr.New(apperr.KindHierarchyViolation, "parent requirement must belong to same badge")
	}

	return nil
}

// validateNoCycle rejects a parent that lies inside the node's own subtree.
// Walks ancestor links up from the proposed parent; hitting the node itself
// means the re-parent would detach the subtree into an unreachable cycle.
func validateNoCycle(tx *sql.Tx, id uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}

	query := `
		WITH RECURSIVE ancestors AS (
			SELECT id, parent_requirement_id FROM requirements WHERE id = $1
			UNION ALL
			SELECT r.id, r.parent_requirement_id
			FROM requirements r
			JOIN ancestors a ON r.id = a.parent_requirement_id
		)
		SELECT EXISTS (SELECT 1 FROM ancestors WHERE id = $2)
	`

	var cycles bool
	if err := tx.QueryRow(query, *parentID, id).Scan(&cycles); err != nil {
		return apperr.FromStore(err, "failed to check requirement ancestry")
	}
	if cycles {
		return apperr.New(apperr.KindHierarchyViolation, "parent requirement must not be the requirement itself or one of its descendants")
	}

	return nil
}

// Create validates the parent link and inserts the requirement atomically
func (r *RequirementRepository) Create(rqmt *models.Requirement) error {
	tx, err := r.db.Begin()
	if err != nil {
		return apperr.FromStore(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := validateParent(tx, rqmt.BadgeID, rqmt.ParentRequirementID); err != nil {
		return err
	}

	query := `
		INSERT INTO requirements (badge_id, identifier, description, parent_requirement_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(query,
		rqmt.BadgeID, rqmt.Identifier, rqmt.Description, rqmt.ParentRequirementID,
	).Scan(&rqmt.ID, &rqmt.CreatedAt, &rqmt.UpdatedAt)
	if err != nil {
		return apperr.FromStore(err, "failed to create requirement")
	}

	if err := tx.Commit(); err != nil {
		return apperr.FromStore(err, "failed to commit requirement")
	}

	return nil
}

// GetByID retrieves a requirement by ID
func (r *RequirementRepository) GetByID(id uuid.UUID) (*models.Requirement, error) {
	query := `SELECT ` + requirementColumns + ` FROM requirements WHERE id = $1`

	rqmt := &models.Requirement{}
	err := r.db.QueryRow(query, id).Scan(
		&rqmt.ID, &rqmt.BadgeID, &rqmt.Identifier, &rqmt.Description,
		&rqmt.ParentRequirementID, &rqmt.CreatedAt, &rqmt.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.New(apperr.KindNotFound, "requirement not found")
	}
	if err != nil {
		return nil, apperr.FromStore(err, "failed to get requirement")
	}

	return rqmt, nil
}

// ListByBadge retrieves every requirement of a badge, all depths, ordered so
// sibling identifiers read naturally. Length-first ordering keeps "2" before
// "10"; plain lexicographic order would not.
func (r *RequirementRepository) ListByBadge(badgeID uuid.UUID) ([]models.Requirement, error) {
	query := `SELECT ` + requirementColumns + ` FROM requirements WHERE badge_id = $1 ORDER BY length(identifier), identifier`

	rows, err := r.db.Query(query, badgeID)
	if err != nil {
		return nil, apperr.FromStore(err, "failed to list requirements")
	}
	defer rows.Close()

	var requirements []models.Requirement
	for rows.Next() {
		var rqmt models.Requirement
		err := rows.Scan(
			&rqmt.ID, &rqmt.BadgeID, &rqmt.Identifier, &rqmt.Description,
			&rqmt.ParentRequirementID, &rqmt.CreatedAt, &rqmt.UpdatedAt,
		)
		if err != nil {
			return nil, apperr.FromStore(err, "failed to scan requirement")
		}
		requirements = append(requirements, rqmt)
	}

	return requirements, rows.Err()
}

// Update rewrites a requirement. The hierarchy guard re-runs whenever the
// badge or parent link may have changed, not just on insert.
func (r *RequirementRepository) Update(rqmt *models.Requirement) error {
	tx, err := r.db.Begin()
	if err != nil {
		return apperr.FromStore(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := validateParent(tx, rqmt.BadgeID, rqmt.ParentRequirementID); err != nil {
		return err
	}
	if err := validateNoCycle(tx, rqmt.ID, rqmt.ParentRequirementID); err != nil {
		return err
	}

	query := `
		UPDATE requirements
		SET badge_id = $2, identifier = $3, description = $4, parent_requirement_id = $5,
		    updated_at = CASE
		        WHEN (badge_id, identifier, description, parent_requirement_id)
		            IS DISTINCT FROM ($2, $3, $4, $5)
		        THEN now()
		        ELSE updated_at
		    END
		WHERE id = $1
		RETURNING updated_at
	`

	err = tx.QueryRow(query,
		rqmt.ID, rqmt.BadgeID, rqmt.Identifier, rqmt.Description, rqmt.ParentRequirementID,
	).Scan(&rqmt.UpdatedAt)
	if err == sql.ErrNoRows {
		return apperr.New(apperr.KindNotFound, "requirement not found")
	}
	if err != nil {
		return apperr.FromStore(err, "failed to update requirement")
	}

	if err := tx.Commit(); err != nil {
		return apperr.FromStore(err, "failed to commit requirement update")
	}

	return nil
}

// Delete removes a requirement and, per schema, its descendants. Ledger rows
// referencing any deleted node keep their completion with the link nulled.
func (r *RequirementRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM requirements WHERE id = $1`, id)
	if err != nil {
		return apperr.FromStore(err, "failed to delete requirement")
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.New(apperr.KindNotFound, "requirement not found")
	}
	return nil
}
