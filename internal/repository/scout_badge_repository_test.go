package repository_test

import (
	"testing"

	"merittrack/internal/apperr"
	"merittrack/internal/models"
	"merittrack/internal/repository"
	"merittrack/internal/testutil"
)

func TestEnrollmentUniquePerScoutAndBadge(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	repo := repository.NewScoutBadgeRepository(containers.DB)

	scout := fixtures.Scouts[0]

	first := &models.ScoutBadge{ScoutID: scout.ID, BadgeID: &fixtures.Badge.ID}
	if err := repo.Create(first); err != nil {
		t.Fatalf("Failed to enroll scout: %v", err)
	}
	if first.Completed {
		t.Error("Expected new enrollment to start incomplete")
	}

	second := &models.ScoutBadge{ScoutID: scout.ID, BadgeID: &fixtures.Badge.ID}
	if err := repo.Create(second); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("Expected conflict on duplicate enrollment, got %v", err)
	}

	// the other scout can still enroll in the same badge
	other := &models.ScoutBadge{ScoutID: fixtures.Scouts[1].ID, BadgeID: &fixtures.Badge.ID}
	if err := repo.Create(other); err != nil {
		t.Errorf("Failed to enroll second scout: %v", err)
	}
}

func TestSetCompletion(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	repo := repository.NewScoutBadgeRepository(containers.DB)

	sb := fixtures.CreateEnrollment(t, fixtures.Scouts[0].ID, fixtures.Badge.ID)

	updated, err := repo.SetCompletion(sb.ID, true, &fixtures.CounselorUser.ID)
	if err != nil {
		t.Fatalf("Failed to set completion: %v", err)
	}
	if !updated.Completed {
		t.Error("Expected enrollment to be completed")
	}
	if updated.SignedByID == nil || *updated.SignedByID != fixtures.CounselorUser.ID {
		t.Errorf("Expected signer %s, got %v", fixtures.CounselorUser.ID, updated.SignedByID)
	}

	// repeating the same decision must not move the timestamp
	again, err := repo.SetCompletion(sb.ID, true, &fixtures.CounselorUser.ID)
	if err != nil {
		t.Fatalf("Failed repeated completion: %v", err)
	}
	if !again.UpdatedAt.Equal(updated.UpdatedAt) {
		t.Errorf("Expected updated_at unchanged on no-op, got %v -> %v", updated.UpdatedAt, again.UpdatedAt)
	}

	reverted, err := repo.SetCompletion(sb.ID, false, nil)
	if err != nil {
		t.Fatalf("Failed to revert completion: %v", err)
	}
	if reverted.Completed || reverted.SignedByID != nil {
		t.Error("Expected completion and signer to be cleared")
	}
	if !reverted.UpdatedAt.After(again.UpdatedAt) {
		t.Errorf("Expected updated_at to advance on change, got %v", reverted.UpdatedAt)
	}
}

func TestUpsertRequirementEntry(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	repo := repository.NewScoutBadgeRepository(containers.DB)

	sb := fixtures.CreateEnrollment(t, fixtures.Scouts[0].ID, fixtures.Badge.ID)
	rqmt := fixtures.Requirements[0]

	entry := &models.ScoutBadgeRequirement{
		ScoutBadgeID:  sb.ID,
		RequirementID: &rqmt.ID,
		Completed:     true,
		SignedByID:    &fixtures.CounselorUser.ID,
	}
	if err := repo.UpsertRequirement(entry); err != nil {
		t.Fatalf("Failed to record completion: %v", err)
	}
	firstID := entry.ID
	firstUpdated := entry.UpdatedAt

	// same values again: row reused, timestamp untouched
	repeat := &models.ScoutBadgeRequirement{
		ScoutBadgeID:  sb.ID,
		RequirementID: &rqmt.ID,
		Completed:     true,
		SignedByID:    &fixtures.CounselorUser.ID,
	}
	if err := repo.UpsertRequirement(repeat); err != nil {
		t.Fatalf("Failed repeated upsert: %v", err)
	}
	if repeat.ID != firstID {
		t.Errorf("Expected upsert to reuse row %s, got %s", firstID, repeat.ID)
	}
	if !repeat.UpdatedAt.Equal(firstUpdated) {
		t.Errorf("Expected updated_at unchanged on no-op, got %v -> %v", firstUpdated, repeat.UpdatedAt)
	}

	// unchecking updates in place
	repeat.Completed = false
	repeat.SignedByID = &fixtures.AdminUser.ID
	if err := repo.UpsertRequirement(repeat); err != nil {
		t.Fatalf("Failed to uncheck requirement: %v", err)
	}
	if repeat.Completed {
		t.Error("Expected requirement to be unchecked")
	}
	if !repeat.UpdatedAt.After(firstUpdated) {
		t.Errorf("Expected updated_at to advance on change, got %v", repeat.UpdatedAt)
	}

	entries, err := repo.ListRequirementEntries(sb.ID)
	if err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected a single ledger row, got %d", len(entries))
	}
}

func TestBadgeDeleteKeepsEarnedEnrollment(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	repo := repository.NewScoutBadgeRepository(containers.DB)
	badges := repository.NewBadgeRepository(containers.DB)
	requirements := repository.NewRequirementRepository(containers.DB)

	sb := fixtures.CreateEnrollment(t, fixtures.Scouts[0].ID, fixtures.Badge.ID)
	if _, err := repo.SetCompletion(sb.ID, true, &fixtures.CounselorUser.ID); err != nil {
		t.Fatalf("Failed to complete badge: %v", err)
	}

	entry := &models.ScoutBadgeRequirement{
		ScoutBadgeID:  sb.ID,
		RequirementID: &fixtures.Requirements[0].ID,
		Completed:     true,
		SignedByID:    &fixtures.CounselorUser.ID,
	}
	if err := repo.UpsertRequirement(entry); err != nil {
		t.Fatalf("Failed to record completion: %v", err)
	}

	if err := badges.Delete(fixtures.Badge.ID); err != nil {
		t.Fatalf("Failed to delete badge: %v", err)
	}

	// the earned badge survives with the curriculum link nulled
	survivor, err := repo.GetByID(sb.ID)
	if err != nil {
		t.Fatalf("Expected enrollment to survive badge deletion: %v", err)
	}
	if survivor.BadgeID != nil {
		t.Errorf("Expected badge link to be nulled, got %v", survivor.BadgeID)
	}
	if !survivor.Completed {
		t.Error("Expected completion to survive badge deletion")
	}

	// requirements cascade away, ledger rows keep completion with nulled link
	if _, err := requirements.GetByID(fixtures.Requirements[0].ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("Expected requirement to cascade with badge, got %v", err)
	}
	entries, err := repo.ListRequirementEntries(sb.ID)
	if err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected ledger row to survive, got %d", len(entries))
	}
	if entries[0].RequirementID != nil {
		t.Errorf("Expected requirement link to be nulled, got %v", entries[0].RequirementID)
	}
	if !entries[0].Completed {
		t.Error("Expected ledger completion to survive")
	}
}

func TestEnrollmentDeleteRemovesLedger(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	repo := repository.NewScoutBadgeRepository(containers.DB)

	sb := fixtures.CreateEnrollment(t, fixtures.Scouts[0].ID, fixtures.Badge.ID)
	entry := &models.ScoutBadgeRequirement{
		ScoutBadgeID:  sb.ID,
		RequirementID: &fixtures.Requirements[0].ID,
	}
	if err := repo.UpsertRequirement(entry); err != nil {
		t.Fatalf("Failed to create ledger row: %v", err)
	}

	if err := repo.Delete(sb.ID); err != nil {
		t.Fatalf("Failed to delete enrollment: %v", err)
	}

	var count int
	if err := containers.DB.QueryRow(
		`SELECT COUNT(*) FROM scout_badge_requirements WHERE scout_badge_id = $1`, sb.ID,
	).Scan(&count); err != nil {
		t.Fatalf("Failed to count ledger rows: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected ledger rows to cascade, got %d", count)
	}

	if err := repo.Delete(sb.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("Expected not found on second delete, got %v", err)
	}
}
