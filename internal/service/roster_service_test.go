package service_test

import (
	"testing"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
	"merittrack/internal/repository"
	"merittrack/internal/service"
	"merittrack/internal/testutil"

	"github.com/google/uuid"
)

func newRosterService(containers *testutil.TestContainers) *service.RosterService {
	return service.NewRosterService(
		repository.NewTroopRepository(containers.DB),
		repository.NewScoutRepository(containers.DB),
		repository.NewScoutLeaderRepository(containers.DB),
		repository.NewAuditRepository(containers.DB),
	)
}

func TestCreateTroop(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	svc := newRosterService(containers)

	troop := &models.Troop{Number: 42, Type: models.TroopTypeGirl, City: "Fresno", State: "CA"}
	if err := svc.CreateTroop(troop, fixtures.DirectorUser); err != nil {
		t.Fatalf("Failed to create troop: %v", err)
	}
	if troop.ID == uuid.Nil {
		t.Error("Expected generated troop ID")
	}

	t.Run("unknown troop type", func(t *testing.T) {
		bad := &models.Troop{Number: 43, Type: "coed", City: "Fresno", State: "CA"}
		err := svc.CreateTroop(bad, fixtures.DirectorUser)
		if !apperr.IsKind(err, apperr.KindInvalidReference) {
			t.Errorf("Expected invalid reference, got %v", err)
		}
	})

	t.Run("duplicate number in same state and type", func(t *testing.T) {
		dup := &models.Troop{Number: 42, Type: models.TroopTypeGirl, City: "Oakland", State: "CA"}
		err := svc.CreateTroop(dup, fixtures.DirectorUser)
		if !apperr.IsKind(err, apperr.KindConflict) {
			t.Errorf("Expected conflict, got %v", err)
		}
	})

	t.Run("same number in another state", func(t *testing.T) {
		other := &models.Troop{Number: 42, Type: models.TroopTypeGirl, City: "Reno", State: "NV"}
		if err := svc.CreateTroop(other, fixtures.DirectorUser); err != nil {
			t.Errorf("Expected number reuse across states, got %v", err)
		}
	})

	t.Run("counselor may not edit the roster", func(t *testing.T) {
		blocked := &models.Troop{Number: 44, Type: models.TroopTypeBoy, City: "Fresno", State: "CA"}
		err := svc.CreateTroop(blocked, fixtures.CounselorUser)
		if !apperr.IsKind(err, apperr.KindForbidden) {
			t.Errorf("Expected forbidden, got %v", err)
		}
	})
}

func TestCreateScout(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	svc := newRosterService(containers)

	scout, err := svc.CreateScout("Casey", "Clark", fixtures.Troop.ID, fixtures.AdminUser)
	if err != nil {
		t.Fatalf("Failed to create scout: %v", err)
	}
	if scout.TroopID != fixtures.Troop.ID {
		t.Errorf("Expected troop %s, got %s", fixtures.Troop.ID, scout.TroopID)
	}

	t.Run("unknown troop", func(t *testing.T) {
		_, err := svc.CreateScout("Devon", "Doyle", uuid.New(), fixtures.AdminUser)
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("Expected not found, got %v", err)
		}
	})
}

func TestDeleteTroopCascades(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	svc := newRosterService(containers)

	if err := svc.DeleteTroop(fixtures.Troop.ID, fixtures.DirectorUser); err != nil {
		t.Fatalf("Failed to delete troop: %v", err)
	}

	// the troop's scouts go with it
	if _, err := svc.GetScout(fixtures.Scouts[0].ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("Expected scout to cascade with troop, got %v", err)
	}

	if err := svc.DeleteTroop(fixtures.Troop.ID, fixtures.DirectorUser); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("Expected not found on second delete, got %v", err)
	}
}
