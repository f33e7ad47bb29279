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

func newIdentityService(containers *testutil.TestContainers) *service.IdentityService {
	return service.NewIdentityService(
		repository.NewUserRepository(containers.DB),
		repository.NewAuditRepository(containers.DB),
	)
}

func TestProvisionUser(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	testutil.SetupFixtures(t, containers.DB)
	svc := newIdentityService(containers)

	t.Run("allow-listed role is kept", func(t *testing.T) {
		user, err := svc.ProvisionUser(uuid.New(), "lee@camp.test", "Lee", "Leader", models.RoleLeader)
		if err != nil {
			t.Fatalf("Failed to provision user: %v", err)
		}
		if user.Role != models.RoleLeader {
			t.Errorf("Expected role leader, got %s", user.Role)
		}
	})

	t.Run("unknown role is coerced to scout", func(t *testing.T) {
		user, err := svc.ProvisionUser(uuid.New(), "mallory@camp.test", "Mallory", "Mallet", "superuser")
		if err != nil {
			t.Fatalf("Failed to provision user: %v", err)
		}
		if user.Role != models.RoleScout {
			t.Errorf("Expected coercion to scout, got %s", user.Role)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.ProvisionUser(uuid.New(), "lee@camp.test", "Lee", "Again", models.RoleScout)
		if !apperr.IsKind(err, apperr.KindConflict) {
			t.Errorf("Expected conflict, got %v", err)
		}
	})
}

func TestUpdateRole(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	svc := newIdentityService(containers)

	updated, err := svc.UpdateRole(fixtures.ScoutUser.ID, models.RoleCounselor, fixtures.AdminUser)
	if err != nil {
		t.Fatalf("Failed to update role: %v", err)
	}
	if updated.Role != models.RoleCounselor {
		t.Errorf("Expected role counselor, got %s", updated.Role)
	}

	t.Run("counselor may not change roles", func(t *testing.T) {
		_, err := svc.UpdateRole(fixtures.ScoutUser.ID, models.RoleAdmin, fixtures.CounselorUser)
		if !apperr.IsKind(err, apperr.KindForbidden) {
			t.Errorf("Expected forbidden, got %v", err)
		}
	})

	t.Run("roles outside the allow-list are rejected", func(t *testing.T) {
		_, err := svc.UpdateRole(fixtures.ScoutUser.ID, "superuser", fixtures.AdminUser)
		if !apperr.IsKind(err, apperr.KindInvalidReference) {
			t.Errorf("Expected invalid reference, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateRole(uuid.New(), models.RoleCounselor, fixtures.AdminUser)
		if !apperr.IsKind(err, apperr.KindNotFound) {
			t.Errorf("Expected not found, got %v", err)
		}
	})
}

func TestRemoveUserKeepsSignOffs(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	svc := newIdentityService(containers)
	scoutBadges := repository.NewScoutBadgeRepository(containers.DB)

	sb := fixtures.CreateEnrollment(t, fixtures.Scouts[0].ID, fixtures.Badge.ID)
	if _, err := scoutBadges.SetCompletion(sb.ID, true, &fixtures.CounselorUser.ID); err != nil {
		t.Fatalf("Failed to complete badge: %v", err)
	}

	if err := svc.RemoveUser(fixtures.CounselorUser.ID); err != nil {
		t.Fatalf("Failed to remove user: %v", err)
	}

	// completion stands, the signer reference is nulled
	survivor, err := scoutBadges.GetByID(sb.ID)
	if err != nil {
		t.Fatalf("Failed to reload enrollment: %v", err)
	}
	if !survivor.Completed {
		t.Error("Expected completion to survive signer removal")
	}
	if survivor.SignedByID != nil {
		t.Errorf("Expected signer reference to be nulled, got %v", survivor.SignedByID)
	}

	if err := svc.RemoveUser(fixtures.CounselorUser.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("Expected not found on second removal, got %v", err)
	}
}

func TestListAuditLogs(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	svc := newIdentityService(containers)

	if _, err := svc.ProvisionUser(uuid.New(), "lee@camp.test", "Lee", "Leader", models.RoleLeader); err != nil {
		t.Fatalf("Failed to provision user: %v", err)
	}

	logs, err := svc.ListAuditLogs(10, 0, fixtures.AdminUser)
	if err != nil {
		t.Fatalf("Failed to list audit logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("Expected 1 audit row, got %d", len(logs))
	}
	if logs[0].Action != "provision" || logs[0].Resource != "user" {
		t.Errorf("Unexpected audit row %s/%s", logs[0].Action, logs[0].Resource)
	}

	if _, err := svc.ListAuditLogs(10, 0, fixtures.CounselorUser); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Errorf("Expected forbidden, got %v", err)
	}
}
