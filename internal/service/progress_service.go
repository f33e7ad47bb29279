package service

import (
	"fmt"

	"github.com/google/uuid"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
	"merittrack/internal/policy"
	"merittrack/internal/repository"
)

// ProgressService maintains the per-scout achievement ledger: badge
// enrollments and requirement sign-offs
type ProgressService struct {
	scoutBadgeRepo  *repository.ScoutBadgeRepository
	scoutRepo       *repository.ScoutRepository
	badgeRepo       *repository.BadgeRepository
	requirementRepo *repository.RequirementRepository
	userRepo        *repository.UserRepository
	auditRepo       *repository.AuditRepository
}

// NewProgressService creates a new progress service
func NewProgressService(
	scoutBadgeRepo *repository.ScoutBadgeRepository,
	scoutRepo *repository.ScoutRepository,
	badgeRepo *repository.BadgeRepository,
	requirementRepo *repository.RequirementRepository,
	userRepo *repository.UserRepository,
	auditRepo *repository.AuditRepository,
) *ProgressService {
	return &ProgressService{
		scoutBadgeRepo:  scoutBadgeRepo,
		scoutRepo:       scoutRepo,
		badgeRepo:       badgeRepo,
		requirementRepo: requirementRepo,
		userRepo:        userRepo,
		auditRepo:       auditRepo,
	}
}

// StartBadge enrolls a scout in a badge. A scout can hold at most one
// enrollment per badge.
func (s *ProgressService) StartBadge(scoutID, badgeID uuid.UUID, acting *models.User) (*models.ScoutBadge, error) {
	if err := policy.Authorize(policy.OpStartBadge, acting); err != nil {
		return nil, err
	}

	scout, err := s.scoutRepo.GetByID(scoutID)
	if err != nil {
		return nil, err
	}
	badge, err := s.badgeRepo.GetByID(badgeID)
	if err != nil {
		return nil, err
	}

	sb := &models.ScoutBadge{ScoutID: scoutID, BadgeID: &badgeID}
	if err := s.scoutBadgeRepo.Create(sb); err != nil {
		return nil, err
	}

	s.auditRepo.Create(&models.AuditLog{
		UserID:    &acting.ID,
		UserEmail: &acting.Email,
		Action:    "create",
		Resource:  "scout_badge",
		Details:   fmt.Sprintf("Scout %s %s started badge %q", scout.FirstName, scout.LastName, badge.Name),
	})

	return sb, nil
}

// GetEnrollment retrieves a single enrollment by ID
func (s *ProgressService) GetEnrollment(id uuid.UUID) (*models.ScoutBadge, error) {
	return s.scoutBadgeRepo.GetByID(id)
}

// MarkRequirementComplete records a sign-off (or retraction) for one
// requirement of an enrollment. The requirement must belong to the badge the
// enrollment was opened for.
func (s *ProgressService) MarkRequirementComplete(scoutBadgeID, requirementID uuid.UUID, completed bool, acting *models.User) (*models.ScoutBadgeRequirement, error) {
	if err := policy.Authorize(policy.OpSignOff, acting); err != nil {
		return nil, err
	}

	sb, err := s.scoutBadgeRepo.GetByID(scoutBadgeID)
	if err != nil {
		return nil, err
	}

	rqmt, err := s.requirementRepo.GetByID(requirementID)
	if err != nil {
		return nil, err
	}
	if sb.BadgeID == nil || rqmt.BadgeID != *sb.BadgeID {
		return nil, apperr.New(apperr.KindHierarchyViolation, "requirement does not belong to the enrolled badge")
	}

	// Signer must be a live account; a dangling FK would surface as an
	// invalid reference rather than the not-found the caller expects.
	if _, err := s.userRepo.GetByID(acting.ID); err != nil {
		return nil, err
	}

	entry := &models.ScoutBadgeRequirement{
		ScoutBadgeID:  scoutBadgeID,
		RequirementID: &requirementID,
		Completed:     completed,
		SignedByID:    &acting.ID,
	}
	if err := s.scoutBadgeRepo.UpsertRequirement(entry); err != nil {
		return nil, err
	}

	s.auditRepo.Create(&models.AuditLog{
		UserID:    &acting.ID,
		UserEmail: &acting.Email,
		Action:    "sign_off",
		Resource:  "scout_badge_requirement",
		Details:   fmt.Sprintf("Requirement %s of enrollment %s set completed=%t", rqmt.Identifier, scoutBadgeID, completed),
	})

	return entry, nil
}

// MarkBadgeComplete records overall badge completion for an enrollment.
// Requirement state is not rolled up; the signer vouches for the whole badge.
func (s *ProgressService) MarkBadgeComplete(scoutBadgeID uuid.UUID, completed bool, acting *models.User) (*models.ScoutBadge, error) {
	if err := policy.Authorize(policy.OpSignOff, acting); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(acting.ID); err != nil {
		return nil, err
	}

	sb, err := s.scoutBadgeRepo.SetCompletion(scoutBadgeID, completed, &acting.ID)
	if err != nil {
		return nil, err
	}

	s.auditRepo.Create(&models.AuditLog{
		UserID:    &acting.ID,
		UserEmail: &acting.Email,
		Action:    "sign_off",
		Resource:  "scout_badge",
		Details:   fmt.Sprintf("Enrollment %s set completed=%t", scoutBadgeID, completed),
	})

	return sb, nil
}

// GetProgress joins one enrollment to its badge's requirement tree with the
// scout's ledger entries attached
func (s *ProgressService) GetProgress(scoutBadgeID uuid.UUID) (*models.ScoutBadgeProgress, error) {
	sb, err := s.scoutBadgeRepo.GetByID(scoutBadgeID)
	if err != nil {
		return nil, err
	}
	return s.assembleProgress(sb)
}

// ListScoutProgress retrieves all of a scout's enrollments, each with its
// progress tree
func (s *ProgressService) ListScoutProgress(scoutID uuid.UUID) ([]models.ScoutBadgeProgress, error) {
	if _, err := s.scoutRepo.GetByID(scoutID); err != nil {
		return nil, err
	}

	enrollments, err := s.scoutBadgeRepo.ListByScout(scoutID)
	if err != nil {
		return nil, err
	}

	progress := make([]models.ScoutBadgeProgress, 0, len(enrollments))
	for i := range enrollments {
		p, err := s.assembleProgress(&enrollments[i])
		if err != nil {
			return nil, err
		}
		progress = append(progress, *p)
	}
	return progress, nil
}

// DeleteEnrollment removes an enrollment with its ledger entries
func (s *ProgressService) DeleteEnrollment(id uuid.UUID, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditRoster, acting); err != nil {
		return err
	}
	return s.scoutBadgeRepo.Delete(id)
}

func (s *ProgressService) assembleProgress(sb *models.ScoutBadge) (*models.ScoutBadgeProgress, error) {
	progress := &models.ScoutBadgeProgress{ScoutBadge: *sb}

	entries, err := s.scoutBadgeRepo.ListRequirementEntries(sb.ID)
	if err != nil {
		return nil, err
	}
	byRequirement := make(map[uuid.UUID]*models.ScoutBadgeRequirement, len(entries))
	for i := range entries {
		if entries[i].RequirementID != nil {
			byRequirement[*entries[i].RequirementID] = &entries[i]
		}
	}

	// Badge may have been removed from the curriculum; the enrollment
	// stands on its own then.
	if sb.BadgeID == nil {
		progress.Requirements = []models.ProgressNode{}
		return progress, nil
	}

	badge, err := s.badgeRepo.GetByID(*sb.BadgeID)
	if err != nil {
		return nil, err
	}
	progress.BadgeName = badge.Name

	requirements, err := s.requirementRepo.ListByBadge(*sb.BadgeID)
	if err != nil {
		return nil, err
	}

	for _, node := range buildRequirementTree(requirements) {
		progress.Requirements = append(progress.Requirements, attachEntries(node, byRequirement))
	}
	return progress, nil
}

func attachEntries(node models.RequirementNode, entries map[uuid.UUID]*models.ScoutBadgeRequirement) models.ProgressNode {
	out := models.ProgressNode{
		Requirement: node.Requirement,
		Entry:       entries[node.ID],
	}
	for _, child := range node.Requirements {
		out.Requirements = append(out.Requirements, attachEntries(child, entries))
	}
	return out
}
