package service

import (
	"fmt"

	"github.com/google/uuid"

	"merittrack/internal/models"
	"merittrack/internal/policy"
	"merittrack/internal/repository"
)

// DepartmentService handles program-area departments
type DepartmentService struct {
	departmentRepo *repository.DepartmentRepository
	userRepo       *repository.UserRepository
	auditRepo      *repository.AuditRepository
}

// NewDepartmentService creates a new department service
func NewDepartmentService(
	departmentRepo *repository.DepartmentRepository,
	userRepo *repository.UserRepository,
	auditRepo *repository.AuditRepository,
) *DepartmentService {
	return &DepartmentService{
		departmentRepo: departmentRepo,
		userRepo:       userRepo,
		auditRepo:      auditRepo,
	}
}

// CreateDepartment creates a department, optionally with a head user
func (s *DepartmentService) CreateDepartment(name string, headUserID *uuid.UUID, acting *models.User) (*models.Department, error) {
	if err := policy.Authorize(policy.OpEditDepartments, acting); err != nil {
		return nil, err
	}

	if headUserID != nil {
		if _, err := s.userRepo.GetByID(*headUserID); err != nil {
			return nil, err
		}
	}

	dpmt := &models.Department{Name: name, HeadUserID: headUserID}
	if err := s.departmentRepo.Create(dpmt); err != nil {
		return nil, err
	}

	s.auditRepo.Create(&models.AuditLog{
		UserID:    &acting.ID,
		UserEmail: &acting.Email,
		Action:    "create",
		Resource:  "department",
		Details:   fmt.Sprintf("Created department %s", dpmt.Name),
	})

	return dpmt, nil
}

// GetDepartment retrieves a department by ID
func (s *DepartmentService) GetDepartment(id uuid.UUID) (*models.Department, error) {
	return s.departmentRepo.GetByID(id)
}

// ListDepartments retrieves all departments
func (s *DepartmentService) ListDepartments() ([]models.Department, error) {
	return s.departmentRepo.List()
}

// UpdateDepartment rewrites a department's name and head
func (s *DepartmentService) UpdateDepartment(dpmt *models.Department, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditDepartments, acting); err != nil {
		return err
	}

	if dpmt.HeadUserID != nil {
		if _, err := s.userRepo.GetByID(*dpmt.HeadUserID); err != nil {
			return err
		}
	}

	return s.departmentRepo.Update(dpmt)
}

// DeleteDepartment removes a department. The schema restricts deletion while
// any merit badge still references it.
func (s *DepartmentService) DeleteDepartment(id uuid.UUID, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditDepartments, acting); err != nil {
		return err
	}

	if err := s.departmentRepo.Delete(id); err != nil {
		return err
	}

	s.auditRepo.Create(&models.AuditLog{
		UserID:    &acting.ID,
		UserEmail: &acting.Email,
		Action:    "delete",
		Resource:  "department",
		Details:   fmt.Sprintf("Deleted department %s", id),
	})

	return nil
}
