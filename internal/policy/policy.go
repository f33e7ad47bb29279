// Package policy holds the role-based write-authorization table. Services
// check it with an explicit acting user before every mutating call; there is
// no ambient session state, so authorization is a pure function of
// (operation, acting user).
package policy

import (
	"merittrack/internal/apperr"
	"merittrack/internal/models"
)

// Operation names a mutating call gated by role
type Operation string

const (
	// OpUpdateRole changes a user's role
	OpUpdateRole Operation = "user.update_role"
	// OpEditDepartments mutates departments
	OpEditDepartments Operation = "department.edit"
	// OpEditRoster mutates troops, scouts, and scout leaders
	OpEditRoster Operation = "roster.edit"
	// OpEditCurriculum mutates merit badges and requirements
	OpEditCurriculum Operation = "curriculum.edit"
	// OpStartBadge enrolls a scout in a badge
	OpStartBadge Operation = "progress.start_badge"
	// OpSignOff sets completion or signer fields on progress rows
	OpSignOff Operation = "progress.sign_off"
	// OpEditSchedule mutates activities
	OpEditSchedule Operation = "schedule.edit"
	// OpViewAuditLog reads the audit trail
	OpViewAuditLog Operation = "audit.view"
)

// table maps each operation to the roles allowed to perform it. Counselors
// read curricula but do not edit them; scouts and leaders are read-only on
// progress even when it is their own.
var table = map[Operation][]string{
	OpUpdateRole:      {models.RoleAdmin, models.RoleDev},
	OpEditDepartments: {models.RoleAdmin, models.RoleDev},
	OpEditRoster:      {models.RoleAdmin, models.RoleDev, models.RoleAreaDirector},
	OpEditCurriculum:  {models.RoleAdmin, models.RoleDev},
	OpStartBadge:      {models.RoleAdmin, models.RoleDev, models.RoleAreaDirector, models.RoleCounselor, models.RoleScout},
	OpSignOff:         {models.RoleAdmin, models.RoleDev, models.RoleAreaDirector, models.RoleCounselor},
	OpEditSchedule:    {models.RoleAdmin, models.RoleDev, models.RoleAreaDirector},
	OpViewAuditLog:    {models.RoleAdmin, models.RoleDev},
}

// AllowedRoles returns the roles permitted to perform op
func AllowedRoles(op Operation) []string {
	return table[op]
}

// Allowed reports whether role may perform op
func Allowed(op Operation, role string) bool {
	for _, r := range table[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize returns a Forbidden error unless the acting user's role permits
// the operation. A nil acting user is always rejected.
func Authorize(op Operation, acting *models.User) error {
	if acting == nil {
		return apperr.Newf(apperr.KindForbidden, "operation %s requires an authenticated user", op)
	}
	if !Allowed(op, acting.Role) {
		return apperr.Newf(apperr.KindForbidden, "role %s may not perform %s", acting.Role, op)
	}
	return nil
}
