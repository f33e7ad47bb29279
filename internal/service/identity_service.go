package service

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
	"merittrack/internal/policy"
	"merittrack/internal/repository"
)

// IdentityService handles user provisioning and role management. Accounts
// are created by the external auth system; this service owns the profile row
// and the role allow-list.
type IdentityService struct {
	userRepo  *repository.UserRepository
	auditRepo *repository.AuditRepository
}

// NewIdentityService creates a new identity service
func NewIdentityService(userRepo *repository.UserRepository, auditRepo *repository.AuditRepository) *IdentityService {
	return &IdentityService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
	}
}

// ProvisionUser creates the profile row for an externally created account.
// A requested role outside the allow-list is coerced to scout with a logged
// warning rather than failing the provisioning; a failed insert, by
// contrast, fails the account creation upstream.
func (s *IdentityService) ProvisionUser(id uuid.UUID, email, firstName, lastName, requestedRole string) (*models.User, error) {
	role := requestedRole
	if !models.AllowedRoles[role] {
		slog.Warn("Requested role not in allow-list, defaulting to scout",
			"user_id", id, "email", email, "requested_role", requestedRole)
		role = models.RoleScout
	}

	user := &models.User{
		ID:        id,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.auditRepo.Create(&models.AuditLog{
		UserID:    &user.ID,
		UserEmail: &user.Email,
		Action:    "provision",
		Resource:  "user",
		Details:   fmt.Sprintf("Provisioned user %s with role %s", user.Email, user.Role),
	})

	return user, nil
}

// GetUser retrieves a user by ID
func (s *IdentityService) GetUser(id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// GetUserByEmail retrieves a user by email
func (s *IdentityService) GetUserByEmail(email string) (*models.User, error) {
	return s.userRepo.GetByEmail(email)
}

// ListUsers retrieves all users
func (s *IdentityService) ListUsers() ([]models.User, error) {
	return s.userRepo.List()
}

// UpdateRole changes a user's role. Only admin and dev may do this, and the
// new role must come from the allow-list.
func (s *IdentityService) UpdateRole(userID uuid.UUID, newRole string, acting *models.User) (*models.User, error) {
	if err := policy.Authorize(policy.OpUpdateRole, acting); err != nil {
		return nil, err
	}
	if !models.AllowedRoles[newRole] {
		return nil, apperr.Newf(apperr.KindInvalidReference, "unknown role: %s", newRole)
	}

	user, err := s.userRepo.UpdateRole(userID, newRole)
	if err != nil {
		return nil, err
	}

	s.auditRepo.Create(&models.AuditLog{
		UserID:    &acting.ID,
		UserEmail: &acting.Email,
		Action:    "update_role",
		Resource:  "user",
		Details:   fmt.Sprintf("Set role of %s to %s", user.Email, newRole),
	})

	return user, nil
}

// RemoveUser deletes the profile row. This is only invoked by the upstream
// account-removal event, never directly by API clients; sign-off and
// department-head back-references are nulled by the schema.
func (s *IdentityService) RemoveUser(id uuid.UUID) error {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		return err
	}

	s.auditRepo.Create(&models.AuditLog{
		UserEmail: &user.Email,
		Action:    "delete",
		Resource:  "user",
		Details:   fmt.Sprintf("Removed user %s", user.Email),
	})

	return nil
}

// ListAuditLogs retrieves the audit trail for admins
func (s *IdentityService) ListAuditLogs(limit, offset int, acting *models.User) ([]models.AuditLog, error) {
	if err := policy.Authorize(policy.OpViewAuditLog, acting); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.auditRepo.List(limit, offset)
}
