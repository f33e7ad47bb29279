package service

import (
	"fmt"

	"github.com/google/uuid"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
	"merittrack/internal/policy"
	"merittrack/internal/repository"
)

// RosterService handles troops, scouts, and scout leaders. Pure reference
// data: the only rule beyond role checks is referential existence.
type RosterService struct {
	troopRepo  *repository.TroopRepository
	scoutRepo  *repository.ScoutRepository
	leaderRepo *repository.ScoutLeaderRepository
	auditRepo  *repository.AuditRepository
}

// NewRosterService creates a new roster service
func NewRosterService(
	troopRepo *repository.TroopRepository,
	scoutRepo *repository.ScoutRepository,
	leaderRepo *repository.ScoutLeaderRepository,
	auditRepo *repository.AuditRepository,
) *RosterService {
	return &RosterService{
		troopRepo:  troopRepo,
		scoutRepo:  scoutRepo,
		leaderRepo: leaderRepo,
		auditRepo:  auditRepo,
	}
}

func validTroopType(t string) bool {
	return t == models.TroopTypeBoy || t == models.TroopTypeGirl || t == models.TroopTypeMixed
}

// CreateTroop creates a troop. (number, state, type) must be unique.
func (s *RosterService) CreateTroop(troop *models.Troop, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditRoster, acting); err != nil {
		return err
	}
	if !validTroopType(troop.Type) {
		return apperr.Newf(apperr.KindInvalidReference, "unknown troop type: %s", troop.Type)
	}

	if err := s.troopRepo.Create(troop); err != nil {
		return err
	}

	s.auditRepo.Create(&models.AuditLog{
		UserID:    &acting.ID,
		UserEmail: &acting.Email,
		Action:    "create",
		Resource:  "troop",
		Details:   fmt.Sprintf("Created troop %d (%s, %s)", troop.Number, troop.State, troop.Type),
	})

	return nil
}

// GetTroop retrieves a troop by ID
func (s *RosterService) GetTroop(id uuid.UUID) (*models.Troop, error) {
	return s.troopRepo.GetByID(id)
}

// ListTroops retrieves all troops
func (s *RosterService) ListTroops() ([]models.Troop, error) {
	return s.troopRepo.List()
}

// UpdateTroop rewrites a troop's fields
func (s *RosterService) UpdateTroop(troop *models.Troop, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditRoster, acting); err != nil {
		return err
	}
	if !validTroopType(troop.Type) {
		return apperr.Newf(apperr.KindInvalidReference, "unknown troop type: %s", troop.Type)
	}
	return s.troopRepo.Update(troop)
}

// DeleteTroop removes a troop. Its scouts and leaders go with it.
func (s *RosterService) DeleteTroop(id uuid.UUID, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditRoster, acting); err != nil {
		return err
	}

	if err := s.troopRepo.Delete(id); err != nil {
		return err
	}

	s.auditRepo.Create(&models.AuditLog{
		UserID:    &acting.ID,
		UserEmail: &acting.Email,
		Action:    "delete",
		Resource:  "troop",
		Details:   fmt.Sprintf("Deleted troop %s", id),
	})

	return nil
}

// CreateScout registers a scout under an existing troop
func (s *RosterService) CreateScout(firstName, lastName string, troopID uuid.UUID, acting *models.User) (*models.Scout, error) {
	if err := policy.Authorize(policy.OpEditRoster, acting); err != nil {
		return nil, err
	}

	if _, err := s.troopRepo.GetByID(troopID); err != nil {
		return nil, err
	}

	scout := &models.Scout{FirstName: firstName, LastName: lastName, TroopID: troopID}
	if err := s.scoutRepo.Create(scout); err != nil {
		return nil, err
	}

	s.auditRepo.Create(&models.AuditLog{
		UserID:    &acting.ID,
		UserEmail: &acting.Email,
		Action:    "create",
		Resource:  "scout",
		Details:   fmt.Sprintf("Registered scout %s %s", scout.FirstName, scout.LastName),
	})

	return scout, nil
}

// GetScout retrieves a scout by ID
func (s *RosterService) GetScout(id uuid.UUID) (*models.Scout, error) {
	return s.scoutRepo.GetByID(id)
}

// ListScoutsByTroop retrieves all scouts of a troop
func (s *RosterService) ListScoutsByTroop(troopID uuid.UUID) ([]models.Scout, error) {
	if _, err := s.troopRepo.GetByID(troopID); err != nil {
		return nil, err
	}
	return s.scoutRepo.ListByTroop(troopID)
}

// UpdateScout rewrites a scout's fields
func (s *RosterService) UpdateScout(scout *models.Scout, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditRoster, acting); err != nil {
		return err
	}
	if _, err := s.troopRepo.GetByID(scout.TroopID); err != nil {
		return err
	}
	return s.scoutRepo.Update(scout)
}

// DeleteScout removes a scout and their progress ledger
func (s *RosterService) DeleteScout(id uuid.UUID, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditRoster, acting); err != nil {
		return err
	}
	return s.scoutRepo.Delete(id)
}

// CreateScoutLeader registers a leader under an existing troop
func (s *RosterService) CreateScoutLeader(leader *models.ScoutLeader, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditRoster, acting); err != nil {
		return err
	}

	if _, err := s.troopRepo.GetByID(leader.TroopID); err != nil {
		return err
	}

	return s.leaderRepo.Create(leader)
}

// ListScoutLeadersByTroop retrieves all leaders of a troop
func (s *RosterService) ListScoutLeadersByTroop(troopID uuid.UUID) ([]models.ScoutLeader, error) {
	if _, err := s.troopRepo.GetByID(troopID); err != nil {
		return nil, err
	}
	return s.leaderRepo.ListByTroop(troopID)
}

// UpdateScoutLeader rewrites a leader's fields
func (s *RosterService) UpdateScoutLeader(leader *models.ScoutLeader, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditRoster, acting); err != nil {
		return err
	}
	if _, err := s.troopRepo.GetByID(leader.TroopID); err != nil {
		return err
	}
	return s.leaderRepo.Update(leader)
}

// DeleteScoutLeader removes a leader
func (s *RosterService) DeleteScoutLeader(id uuid.UUID, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditRoster, acting); err != nil {
		return err
	}
	return s.leaderRepo.Delete(id)
}
