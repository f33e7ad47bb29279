package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
	"merittrack/internal/policy"
	"merittrack/internal/repository"
)

// ActivityService manages the camp schedule
type ActivityService struct {
	activityRepo *repository.ActivityRepository
	badgeRepo    *repository.BadgeRepository
	auditRepo    *repository.AuditRepository
}

// NewActivityService creates a new activity service
func NewActivityService(
	activityRepo *repository.ActivityRepository,
	badgeRepo *repository.BadgeRepository,
	auditRepo *repository.AuditRepository,
) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		badgeRepo:    badgeRepo,
		auditRepo:    auditRepo,
	}
}

func validateActivity(activity *models.Activity) error {
	if activity.DurationMinutes <= 0 {
		return apperr.New(apperr.KindInvalidReference, "duration must be positive")
	}
	if _, err := time.Parse("15:04:05", activity.StartTime); err != nil {
		return apperr.Newf(apperr.KindInvalidReference, "invalid start time %q, want HH:MM:SS", activity.StartTime)
	}
	return nil
}

// CreateActivity schedules an activity, optionally tied to a badge
func (s *ActivityService) CreateActivity(activity *models.Activity, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditSchedule, acting); err != nil {
		return err
	}
	if err := validateActivity(activity); err != nil {
		return err
	}
	if activity.BadgeID != nil {
		if _, err := s.badgeRepo.GetByID(*activity.BadgeID); err != nil {
			return err
		}
	}

	if err := s.activityRepo.Create(activity); err != nil {
		return err
	}

	s.auditRepo.Create(&models.AuditLog{
		UserID:    &acting.ID,
		UserEmail: &acting.Email,
		Action:    "create",
		Resource:  "activity",
		Details:   fmt.Sprintf("Scheduled %q on %s at %s", activity.Name, activity.Date.Format("2006-01-02"), activity.StartTime),
	})

	return nil
}

// GetActivity retrieves an activity by ID
func (s *ActivityService) GetActivity(id uuid.UUID) (*models.Activity, error) {
	return s.activityRepo.GetByID(id)
}

// ListActivities retrieves activities within a date range, inclusive
func (s *ActivityService) ListActivities(from, to time.Time) ([]models.Activity, error) {
	if to.Before(from) {
		return nil, apperr.New(apperr.KindInvalidReference, "range end precedes start")
	}
	return s.activityRepo.ListByDateRange(from, to)
}

// UpdateActivity rewrites an activity's fields
func (s *ActivityService) UpdateActivity(activity *models.Activity, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditSchedule, acting); err != nil {
		return err
	}
	if err := validateActivity(activity); err != nil {
		return err
	}
	if activity.BadgeID != nil {
		if _, err := s.badgeRepo.GetByID(*activity.BadgeID); err != nil {
			return err
		}
	}
	return s.activityRepo.Update(activity)
}

// DeleteActivity removes an activity
func (s *ActivityService) DeleteActivity(id uuid.UUID, acting *models.User) error {
	if err := policy.Authorize(policy.OpEditSchedule, acting); err != nil {
		return err
	}

	if err := s.activityRepo.Delete(id); err != nil {
		return err
	}

	s.auditRepo.Create(&models.AuditLog{
		UserID:    &acting.ID,
		UserEmail: &acting.Email,
		Action:    "delete",
		Resource:  "activity",
		Details:   fmt.Sprintf("Deleted activity %s", id),
	})

	return nil
}
