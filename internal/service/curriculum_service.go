package service

import (
	"fmt"

	"github.com/google/uuid"

	"merittrack/internal/models"
	"merittrack/internal/policy"
	"merittrack/internal/repository"
)

// CurriculumService manages merit badges and their requirement trees
type CurriculumService struct {
	badgeRepo       *repository.BadgeRepository
	requirementRepo *repository.RequirementRepository
	departmentRepo  *repository.DepartmentRepository
	auditRepo       *repository.AuditRepository
}

// NewCurriculumService creates a new curriculum service
func NewCurriculumService(
	badgeRepo *repository.BadgeRepository,
	requirementRepo *repository.RequirementRepository,
	departmentRepo *repository.DepartmentRepository,
	auditRepo *repository.AuditRepository,
) *CurriculumService {
	return &CurriculumService{
		badgeRepo:       badgeRepo,
		requirementRepo: requirementRepo,
		departmentRepo:  departmentRepo,
		auditRepo:       auditRepo,
	}
}

// CreateBadge creates a merit badge under an existing department
func (s *CurriculumService) CreateBadge(badge *models.MeritBadge, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditCurriculum, acting); err != nil {
		return err
	}

	if _, err := s.departmentRepo.GetByID(badge.DepartmentID); err != nil {
		return err
	}

	if err := s.badgeRepo.Create(badge); err != nil {
		return err
	}

	s.auditRepo.Create(&models.AuditLog{
		UserID:    &acting.ID,
		UserEmail: &acting.Email,
		Action:    "create",
		Resource:  "merit_badge",
		Details:   fmt.Sprintf("Created badge %q", badge.Name),
	})

	return nil
}

// GetBadge retrieves a badge by ID, without its requirements
func (s *CurriculumService) GetBadge(id uuid.UUID) (*models.MeritBadge, error) {
	return s.badgeRepo.GetByID(id)
}

// ListBadges retrieves all badges
func (s *CurriculumService) ListBadges() ([]models.MeritBadge, error) {
	return s.badgeRepo.List()
}

// ListBadgesByDepartment retrieves all badges belonging to a department
func (s *CurriculumService) ListBadgesByDepartment(departmentID uuid.UUID) ([]models.MeritBadge, error) {
	if _, err := s.departmentRepo.GetByID(departmentID); err != nil {
		return nil, err
	}
	return s.badgeRepo.ListByDepartment(departmentID)
}

// GetBadgeTree retrieves a badge with its full nested requirement tree
func (s *CurriculumService) GetBadgeTree(id uuid.UUID) (*models.BadgeWithRequirements, error) {
	badge, err := s.badgeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	requirements, err := s.requirementRepo.ListByBadge(id)
	if err != nil {
		return nil, err
	}

	return &models.BadgeWithRequirements{
		MeritBadge:   *badge,
		Requirements: buildRequirementTree(requirements),
	}, nil
}

// UpdateBadge rewrites a badge's fields
func (s *CurriculumService) UpdateBadge(badge *models.MeritBadge, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditCurriculum, acting); err != nil {
		return err
	}
	if _, err := s.departmentRepo.GetByID(badge.DepartmentID); err != nil {
		return err
	}
	return s.badgeRepo.Update(badge)
}

// DeleteBadge removes a badge and its requirement tree. Existing enrollments
// survive with their badge reference nulled.
func (s *CurriculumService) DeleteBadge(id uuid.UUID, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditCurriculum, acting); err != nil {
		return err
	}

	if err := s.badgeRepo.Delete(id); err != nil {
		return err
	}

	s.auditRepo.Create(&models.AuditLog{
		UserID:    &acting.ID,
		UserEmail: &acting.Email,
		Action:    "delete",
		Resource:  "merit_badge",
		Details:   fmt.Sprintf("Deleted badge %s", id),
	})

	return nil
}

// CreateRequirement adds a requirement to a badge. A non-nil parent must
// already exist and belong to the same badge.
func (s *CurriculumService) CreateRequirement(rqmt *models.Requirement, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditCurriculum, acting); err != nil {
		return err
	}

	if _, err := s.badgeRepo.GetByID(rqmt.BadgeID); err != nil {
		return err
	}

	return s.requirementRepo.Create(rqmt)
}

// GetRequirement retrieves a requirement by ID
func (s *CurriculumService) GetRequirement(id uuid.UUID) (*models.Requirement, error) {
	return s.requirementRepo.GetByID(id)
}

// UpdateRequirement rewrites a requirement. Re-parenting is validated the
// same way creation is.
func (s *CurriculumService) UpdateRequirement(rqmt *models.Requirement, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditCurriculum, acting); err != nil {
		return err
	}
	return s.requirementRepo.Update(rqmt)
}

// DeleteRequirement removes a requirement and its sub-tree. Ledger entries
// pointing at deleted nodes keep their completion state with the reference
// nulled.
func (s *CurriculumService) DeleteRequirement(id uuid.UUID, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditCurriculum, acting); err != nil {
		return err
	}
	return s.requirementRepo.Delete(id)
}

// buildRequirementTree nests a flat, identifier-ordered requirement list
// into parent/child form. Roots are nodes without a parent.
func buildRequirementTree(flat []models.Requirement) []models.RequirementNode {
	children := make(map[uuid.UUID][]models.Requirement)
	var roots []models.Requirement

	for _, rqmt := range flat {
		if rqmt.ParentRequirementID == nil {
			roots = append(roots, rqmt)
			continue
		}
		children[*rqmt.ParentRequirementID] = append(children[*rqmt.ParentRequirementID], rqmt)
	}

	var build func(rqmt models.Requirement) models.RequirementNode
	build = func(rqmt models.Requirement) models.RequirementNode {
		node := models.RequirementNode{Requirement: rqmt}
		for _, child := range children[rqmt.ID] {
			node.Requirements = append(node.Requirements, build(child))
		}
		return node
	}

	nodes := make([]models.RequirementNode, 0, len(roots))
	for _, root := range roots {
		nodes = append(nodes, build(root))
	}
	return nodes
}
