package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles. Role governs write authorization across the whole system.
const (
	RoleAdmin        = "admin"
	RoleCounselor    = "counselor"
	RoleScout        = "scout"
	RoleLeader       = "leader"
	RoleAreaDirector = "areaDirector"
	RoleDev          = "dev"
)

// AllowedRoles is the provisioning allow-list. Anything outside it is
// coerced to RoleScout.
var AllowedRoles = map[string]bool{
	RoleAdmin:        true,
	RoleCounselor:    true,
	RoleScout:        true,
	RoleLeader:       true,
	RoleAreaDirector: true,
	RoleDev:          true,
}

// Troop types
const (
	TroopTypeBoy   = "boy"
	TroopTypeGirl  = "girl"
	TroopTypeMixed = "mixed"
)

// User represents a camp staff member or participant account. The ID is
// assigned by the external auth system at provisioning time.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Role         string     `json:"role" db:"role"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty" db:"department_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Department groups merit badges and staff into program areas
type Department struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Name       string     `json:"name" db:"name"`
	HeadUserID *uuid.UUID `json:"head_user_id,omitempty" db:"head_user_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// Troop is a scouting unit. The number alone is not globally unique;
// (number, state, type) is.
type Troop struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Number    int       `json:"number" db:"number"`
	Phone     string    `json:"phone" db:"phone"`
	Email     string    `json:"email" db:"email"`
	Type      string    `json:"type" db:"type"`
	City      string    `json:"city" db:"city"`
	State     string    `json:"state" db:"state"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ScoutLeader is an adult leader attached to exactly one troop
type ScoutLeader struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	TroopID   uuid.UUID `json:"troop_id" db:"troop_id"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Scout is a camp participant, tied to exactly one troop
type Scout struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	TroopID   uuid.UUID `json:"troop_id" db:"troop_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MeritBadge is the root of a curriculum tree
type MeritBadge struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	IsEagleRequired bool      `json:"is_eagle_required" db:"is_eagle_required"`
	DepartmentID    uuid.UUID `json:"department_id" db:"department_id"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Requirement is one node in a badge's requirement tree. Every node carries
// its badge id directly, even sub-requirements; a non-nil parent must belong
// to the same badge.
type Requirement struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	BadgeID             uuid.UUID  `json:"badge_id" db:"badge_id"`
	Identifier          string     `json:"identifier" db:"identifier"`
	Description         string     `json:"description" db:"description"`
	ParentRequirementID *uuid.UUID `json:"parent_requirement_id,omitempty" db:"parent_requirement_id"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// ScoutBadge is a scout's enrollment/completion state for one badge. BadgeID
// is nulled rather than cascaded when the badge is deleted, so an earned
// badge survives curriculum removal.
type ScoutBadge struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	ScoutID    uuid.UUID  `json:"scout_id" db:"scout_id"`
	BadgeID    *uuid.UUID `json:"badge_id,omitempty" db:"badge_id"`
	Completed  bool       `json:"completed" db:"completed"`
	SignedByID *uuid.UUID `json:"signed_by_id,omitempty" db:"signed_by_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// ScoutBadgeRequirement mirrors one Requirement for one ScoutBadge
type ScoutBadgeRequirement struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	ScoutBadgeID  uuid.UUID  `json:"scout_badge_id" db:"scout_badge_id"`
	RequirementID *uuid.UUID `json:"requirement_id,omitempty" db:"requirement_id"`
	Completed     bool       `json:"completed" db:"completed"`
	SignedByID    *uuid.UUID `json:"signed_by_id,omitempty" db:"signed_by_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// Activity is a scheduled, time-boxed session, optionally tied to a badge
type Activity struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	Date            time.Time  `json:"date" db:"date"`
	StartTime       string     `json:"start_time" db:"start_time"` // HH:MM:SS
	DurationMinutes int        `json:"duration_minutes" db:"duration_minutes"`
	BadgeID         *uuid.UUID `json:"badge_id,omitempty" db:"badge_id"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// AuditLog records who performed which mutation
type AuditLog struct {
	ID        uint       `json:"id" db:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	UserEmail *string    `json:"user_email,omitempty" db:"user_email"`
	Action    string     `json:"action" db:"action"`
	Resource  string     `json:"resource" db:"resource"`
	Details   string     `json:"details,omitempty" db:"details"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// RequirementNode is a requirement plus its sub-requirements, shaped the way
// clients render nested checklists
type RequirementNode struct {
	Requirement
	Requirements []RequirementNode `json:"requirements,omitempty"`
}

// BadgeWithRequirements extends MeritBadge with its full requirement tree
type BadgeWithRequirements struct {
	MeritBadge
	Requirements []RequirementNode `json:"requirements"`
}

// ProgressNode is one requirement with the scout's completion state attached.
// Entry is nil when the scout has no ledger row for the node yet.
type ProgressNode struct {
	Requirement
	Entry        *ScoutBadgeRequirement `json:"entry,omitempty"`
	Requirements []ProgressNode         `json:"requirements,omitempty"`
}

// ScoutBadgeProgress is a scout's enrollment joined to the curriculum tree
type ScoutBadgeProgress struct {
	ScoutBadge
	BadgeName    string         `json:"badge_name,omitempty"`
	Requirements []ProgressNode `json:"requirements"`
}
