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

func newProgressService(containers *testutil.TestContainers) *service.ProgressService {
	return service.NewProgressService(
		repository.NewScoutBadgeRepository(containers.DB),
		repository.NewScoutRepository(containers.DB),
		repository.NewBadgeRepository(containers.DB),
		repository.NewRequirementRepository(containers.DB),
		repository.NewUserRepository(containers.DB),
		repository.NewAuditRepository(containers.DB),
	)
}

func TestStartBadge(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	svc := newProgressService(containers)

	scout := fixtures.Scouts[0]

	sb, err := svc.StartBadge(scout.ID, fixtures.Badge.ID, fixtures.ScoutUser)
	if err != nil {
		t.Fatalf("Failed to start badge: %v", err)
	}
	if sb.Completed {
		t.Error("Expected new enrollment to start incomplete")
	}

	t.Run("duplicate enrollment", func(t *testing.T) {
		_, err := svc.StartBadge(scout.ID, fixtures.Badge.ID, fixtures.CounselorUser)
		if !apperr.IsKind(err, apperr.KindConflict) {
			t.Errorf("Expected conflict, got %v", err)
		}
	})

	t.Run("leader may not start badges", func(t *testing.T) {
		leader := testutil.CreateUser(t, containers.DB, "leader@camp.test", "Lee", "Leader", models.RoleLeader)
		_, err := svc.StartBadge(fixtures.Scouts[1].ID, fixtures.Badge.ID, leader)
		if !apperr.IsKind(err, apperr.KindForbidden) {
			t.Errorf("Expected forbidden, got %v", err)
		}
	})

	t.Run("unknown scout", func(t *testing.T) {
		_, err := svc.StartBadge(uuid.New(), fixtures.Badge.ID, fixtures.CounselorUser)
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("Expected not found, got %v", err)
		}
	})

	t.Run("unknown badge", func(t *testing.T) {
		_, err := svc.StartBadge(fixtures.Scouts[1].ID, uuid.New(), fixtures.CounselorUser)
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("Expected not found, got %v", err)
		}
	})

	t.Run("enrollment is audited", func(t *testing.T) {
		var count int
		err := containers.DB.QueryRow(
			`SELECT COUNT(*) FROM audit_logs WHERE resource = 'scout_badge' AND action = 'create'`,
		).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to count audit rows: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 audit row, got %d", count)
		}
	})
}

func TestMarkRequirementComplete(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	svc := newProgressService(containers)

	sb := fixtures.CreateEnrollment(t, fixtures.Scouts[0].ID, fixtures.Badge.ID)
	rqmt := fixtures.Requirements[0]

	entry, err := svc.MarkRequirementComplete(sb.ID, rqmt.ID, true, fixtures.CounselorUser)
	if err != nil {
		t.Fatalf("Failed to sign off requirement: %v", err)
	}
	if !entry.Completed {
		t.Error("Expected entry to be completed")
	}
	if entry.SignedByID == nil || *entry.SignedByID != fixtures.CounselorUser.ID {
		t.Errorf("Expected signer %s, got %v", fixtures.CounselorUser.ID, entry.SignedByID)
	}

	t.Run("scouts may not sign off", func(t *testing.T) {
		_, err := svc.MarkRequirementComplete(sb.ID, rqmt.ID, true, fixtures.ScoutUser)
		if !apperr.IsKind(err, apperr.KindForbidden) {
			t.Errorf("Expected forbidden, got %v", err)
		}
	})

	t.Run("requirement from another badge", func(t *testing.T) {
		badges := repository.NewBadgeRepository(containers.DB)
		requirements := repository.NewRequirementRepository(containers.DB)

		other := &models.MeritBadge{Name: "Canoeing", DepartmentID: fixtures.Department.ID}
		if err := badges.Create(other); err != nil {
			t.Fatalf("Failed to create second badge: %v", err)
		}
		foreign := &models.Requirement{BadgeID: other.ID, Identifier: "1", Description: "Launch a canoe"}
		if err := requirements.Create(foreign); err != nil {
			t.Fatalf("Failed to create requirement: %v", err)
		}

		_, err := svc.MarkRequirementComplete(sb.ID, foreign.ID, true, fixtures.CounselorUser)
		if !apperr.IsKind(err, apperr.KindHierarchyViolation) {
			t.Errorf("Expected hierarchy violation, got %v", err)
		}
	})

	t.Run("retraction reuses the ledger row", func(t *testing.T) {
		retracted, err := svc.MarkRequirementComplete(sb.ID, rqmt.ID, false, fixtures.DirectorUser)
		if err != nil {
			t.Fatalf("Failed to retract sign-off: %v", err)
		}
		if retracted.Completed {
			t.Error("Expected entry to be unchecked")
		}
		if retracted.ID != entry.ID {
			t.Errorf("Expected ledger row %s to be reused, got %s", entry.ID, retracted.ID)
		}
		if retracted.SignedByID == nil || *retracted.SignedByID != fixtures.DirectorUser.ID {
			t.Errorf("Expected signer %s, got %v", fixtures.DirectorUser.ID, retracted.SignedByID)
		}
	})

	t.Run("unknown enrollment", func(t *testing.T) {
		_, err := svc.MarkRequirementComplete(uuid.New(), rqmt.ID, true, fixtures.CounselorUser)
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("Expected not found, got %v", err)
		}
	})
}

func TestMarkBadgeComplete(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	svc := newProgressService(containers)

	sb := fixtures.CreateEnrollment(t, fixtures.Scouts[0].ID, fixtures.Badge.ID)

	// no requirement has been signed off; completion is the staff's call
	completed, err := svc.MarkBadgeComplete(sb.ID, true, fixtures.DirectorUser)
	if err != nil {
		t.Fatalf("Failed to complete badge: %v", err)
	}
	if !completed.Completed {
		t.Error("Expected enrollment to be completed")
	}
	if completed.SignedByID == nil || *completed.SignedByID != fixtures.DirectorUser.ID {
		t.Errorf("Expected signer %s, got %v", fixtures.DirectorUser.ID, completed.SignedByID)
	}

	if _, err := svc.MarkBadgeComplete(sb.ID, true, fixtures.ScoutUser); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("Expected forbidden, got %v", err)
	}
}

func TestGetProgress(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	svc := newProgressService(containers)

	sb := fixtures.CreateEnrollment(t, fixtures.Scouts[0].ID, fixtures.Badge.ID)
	root1 := fixtures.Requirements[0] // "1"
	sub1a := fixtures.Requirements[2] // "a", child of "1"

	if _, err := svc.MarkRequirementComplete(sb.ID, sub1a.ID, true, fixtures.CounselorUser); err != nil {
		t.Fatalf("Failed to sign off sub-requirement: %v", err)
	}

	progress, err := svc.GetProgress(sb.ID)
	if err != nil {
		t.Fatalf("Failed to get progress: %v", err)
	}
	if progress.BadgeName != "Swimming" {
		t.Errorf("Expected badge name Swimming, got %q", progress.BadgeName)
	}
	if len(progress.Requirements) != 2 {
		t.Fatalf("Expected 2 top-level requirements, got %d", len(progress.Requirements))
	}

	var node1 *models.ProgressNode
	for i := range progress.Requirements {
		if progress.Requirements[i].ID == root1.ID {
			node1 = &progress.Requirements[i]
		}
	}
	if node1 == nil {
		t.Fatal("Expected requirement 1 in the tree")
	}
	if node1.Entry != nil {
		t.Error("Expected no ledger entry on requirement 1")
	}
	if len(node1.Requirements) != 1 {
		t.Fatalf("Expected 1 sub-requirement, got %d", len(node1.Requirements))
	}

	leaf := node1.Requirements[0]
	if leaf.ID != sub1a.ID {
		t.Errorf("Expected sub-requirement %s, got %s", sub1a.ID, leaf.ID)
	}
	if leaf.Entry == nil || !leaf.Entry.Completed {
		t.Error("Expected signed-off entry on sub-requirement")
	}
}

func TestListScoutProgressAfterBadgeRemoval(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	svc := newProgressService(containers)
	badges := repository.NewBadgeRepository(containers.DB)

	scout := fixtures.Scouts[0]
	sb := fixtures.CreateEnrollment(t, scout.ID, fixtures.Badge.ID)
	if _, err := svc.MarkBadgeComplete(sb.ID, true, fixtures.CounselorUser); err != nil {
		t.Fatalf("Failed to complete badge: %v", err)
	}

	if err := badges.Delete(fixtures.Badge.ID); err != nil {
		t.Fatalf("Failed to delete badge: %v", err)
	}

	progress, err := svc.ListScoutProgress(scout.ID)
	if err != nil {
		t.Fatalf("Failed to list progress: %v", err)
	}
	if len(progress) != 1 {
		t.Fatalf("Expected 1 enrollment, got %d", len(progress))
	}
	if progress[0].BadgeID != nil {
		t.Errorf("Expected badge link to be nulled, got %v", progress[0].BadgeID)
	}
	if !progress[0].Completed {
		t.Error("Expected earned badge to stay completed")
	}
	if len(progress[0].Requirements) != 0 {
		t.Errorf("Expected no requirement tree for removed badge, got %d nodes", len(progress[0].Requirements))
	}

	t.Run("unknown scout", func(t *testing.T) {
		_, err := svc.ListScoutProgress(uuid.New())
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("Expected not found, got %v", err)
		}
	})
}
