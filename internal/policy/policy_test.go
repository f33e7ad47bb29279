package policy_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
	"merittrack/internal/policy"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		name string
		op   policy.Operation
		role string
		want bool
	}{
		{"admin updates roles", policy.OpUpdateRole, models.RoleAdmin, true},
		{"dev updates roles", policy.OpUpdateRole, models.RoleDev, true},
		{"counselor may not update roles", policy.OpUpdateRole, models.RoleCounselor, false},
		{"area director may not update roles", policy.OpUpdateRole, models.RoleAreaDirector, false},

		{"admin edits departments", policy.OpEditDepartments, models.RoleAdmin, true},
		{"area director may not edit departments", policy.OpEditDepartments, models.RoleAreaDirector, false},

		{"area director edits roster", policy.OpEditRoster, models.RoleAreaDirector, true},
		{"counselor may not edit roster", policy.OpEditRoster, models.RoleCounselor, false},
		{"scout may not edit roster", policy.OpEditRoster, models.RoleScout, false},

		{"admin edits curriculum", policy.OpEditCurriculum, models.RoleAdmin, true},
		{"counselor may not edit curriculum", policy.OpEditCurriculum, models.RoleCounselor, false},
		{"area director may not edit curriculum", policy.OpEditCurriculum, models.RoleAreaDirector, false},

		{"scout starts a badge", policy.OpStartBadge, models.RoleScout, true},
		{"counselor starts a badge", policy.OpStartBadge, models.RoleCounselor, true},
		{"leader may not start a badge", policy.OpStartBadge, models.RoleLeader, false},

		{"counselor signs off", policy.OpSignOff, models.RoleCounselor, true},
		{"area director signs off", policy.OpSignOff, models.RoleAreaDirector, true},
		{"scout may not sign off", policy.OpSignOff, models.RoleScout, false},
		{"leader may not sign off", policy.OpSignOff, models.RoleLeader, false},

		{"area director edits schedule", policy.OpEditSchedule, models.RoleAreaDirector, true},
		{"counselor may not edit schedule", policy.OpEditSchedule, models.RoleCounselor, false},

		{"admin views audit log", policy.OpViewAuditLog, models.RoleAdmin, true},
		{"counselor may not view audit log", policy.OpViewAuditLog, models.RoleCounselor, false},

		{"unknown role is rejected", policy.OpSignOff, "superuser", false},
		{"empty role is rejected", policy.OpSignOff, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Allowed(tt.op, tt.role))
		})
	}
}

func TestAuthorize(t *testing.T) {
	counselor := &models.User{ID: uuid.New(), Email: "counselor@camp.test", Role: models.RoleCounselor}

	if err := policy.Authorize(policy.OpSignOff, counselor); err != nil {
		t.Fatalf("expected counselor sign-off to be authorized, got %v", err)
	}

	err := policy.Authorize(policy.OpEditCurriculum, counselor)
	if err == nil {
		t.Fatal("expected counselor curriculum edit to be rejected")
	}
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	err = policy.Authorize(policy.OpSignOff, nil)
	if err == nil {
		t.Fatal("expected nil acting user to be rejected")
	}
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestAllowedRolesCoversEveryOperation(t *testing.T) {
	ops := []policy.Operation{
		policy.OpUpdateRole,
		policy.OpEditDepartments,
		policy.OpEditRoster,
		policy.OpEditCurriculum,
		policy.OpStartBadge,
		policy.OpSignOff,
		policy.OpEditSchedule,
		policy.OpViewAuditLog,
	}
	for _, op := range ops {
		roles := policy.AllowedRoles(op)
		assert.NotEmpty(t, roles, "operation %s has no allowed roles", op)
		// admin and dev can do everything
		assert.Contains(t, roles, models.RoleAdmin)
		assert.Contains(t, roles, models.RoleDev)
	}
}
