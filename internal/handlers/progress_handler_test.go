package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"merittrack/internal/auth"
	"merittrack/internal/config"
	"merittrack/internal/handlers"
	"merittrack/internal/middleware"
	"merittrack/internal/models"
	"merittrack/internal/repository"
	"merittrack/internal/service"
	"merittrack/internal/testutil"
)

// progressMux wires the progress routes the way the API server does, with
// the real auth middleware in front
func progressMux(containers *testutil.TestContainers) *http.ServeMux {
	userRepo := repository.NewUserRepository(containers.DB)
	progressService := service.NewProgressService(
		repository.NewScoutBadgeRepository(containers.DB),
		repository.NewScoutRepository(containers.DB),
		repository.NewBadgeRepository(containers.DB),
		repository.NewRequirementRepository(containers.DB),
		userRepo,
		repository.NewAuditRepository(containers.DB),
	)
	progressHandler := handlers.NewProgressHandler(progressService)

	authService := auth.NewService(&config.AuthConfig{JWTSecret: string(containers.JWTSecret)})
	authMw := middleware.NewAuthMiddleware(authService, userRepo)
	authed := func(h http.HandlerFunc) http.Handler {
		return authMw.Authenticate(h)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/v1/scout-badges", authed(progressHandler.StartBadge))
	mux.Handle("GET /api/v1/scout-badges/{id}", authed(progressHandler.GetProgress))
	mux.Handle("PUT /api/v1/scout-badges/{id}/requirements/{requirementId}", authed(progressHandler.SignOffRequirement))
	return mux
}

func TestStartBadgeEndpoint(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	mux := progressMux(containers)
	authHelper := testutil.NewAuthHelper()

	body, _ := json.Marshal(handlers.StartBadgeRequest{
		ScoutID: fixtures.Scouts[0].ID,
		BadgeID: fixtures.Badge.ID,
	})

	req := httptest.NewRequest("POST", "/api/v1/scout-badges", bytes.NewReader(body))
	authHelper.AddAuthHeader(t, req, fixtures.ScoutUser)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var sb models.ScoutBadge
	if err := json.NewDecoder(rec.Body).Decode(&sb); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if sb.ScoutID != fixtures.Scouts[0].ID {
		t.Errorf("Expected scout %s, got %s", fixtures.Scouts[0].ID, sb.ScoutID)
	}

	t.Run("duplicate enrollment returns 409", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/scout-badges", bytes.NewReader(body))
		authHelper.AddAuthHeader(t, req, fixtures.ScoutUser)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d", rec.Code)
		}
	})

	t.Run("missing token returns 401", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/scout-badges", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
	})

	t.Run("token for a removed account returns 401", func(t *testing.T) {
		// valid signature, but no profile row behind the id
		stranger := *fixtures.ScoutUser
		stranger.ID = uuid.New()
		req := httptest.NewRequest("POST", "/api/v1/scout-badges", bytes.NewReader(body))
		authHelper.AddAuthHeader(t, req, &stranger)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
	})
}

func TestSignOffRequirementEndpoint(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	mux := progressMux(containers)
	authHelper := testutil.NewAuthHelper()

	sb := fixtures.CreateEnrollment(t, fixtures.Scouts[0].ID, fixtures.Badge.ID)
	rqmt := fixtures.Requirements[0]
	url := fmt.Sprintf("/api/v1/scout-badges/%s/requirements/%s", sb.ID, rqmt.ID)
	body, _ := json.Marshal(handlers.CompletionRequest{Completed: true})

	t.Run("counselor signs off", func(t *testing.T) {
		req := httptest.NewRequest("PUT", url, bytes.NewReader(body))
		authHelper.AddAuthHeader(t, req, fixtures.CounselorUser)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var entry models.ScoutBadgeRequirement
		if err := json.NewDecoder(rec.Body).Decode(&entry); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if !entry.Completed {
			t.Error("Expected completed entry")
		}
		if entry.SignedByID == nil || *entry.SignedByID != fixtures.CounselorUser.ID {
			t.Errorf("Expected signer %s, got %v", fixtures.CounselorUser.ID, entry.SignedByID)
		}
	})

	t.Run("scout gets 403", func(t *testing.T) {
		req := httptest.NewRequest("PUT", url, bytes.NewReader(body))
		authHelper.AddAuthHeader(t, req, fixtures.ScoutUser)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", rec.Code)
		}
	})

	t.Run("malformed requirement id gets 400", func(t *testing.T) {
		req := httptest.NewRequest("PUT",
			fmt.Sprintf("/api/v1/scout-badges/%s/requirements/not-a-uuid", sb.ID),
			bytes.NewReader(body))
		authHelper.AddAuthHeader(t, req, fixtures.CounselorUser)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("tree reflects the sign-off", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/scout-badges/"+sb.ID.String(), nil)
		authHelper.AddAuthHeader(t, req, fixtures.ScoutUser)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		var progress models.ScoutBadgeProgress
		if err := json.NewDecoder(rec.Body).Decode(&progress); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if progress.BadgeName != "Swimming" {
			t.Errorf("Expected badge name Swimming, got %q", progress.BadgeName)
		}
		var signedOff bool
		for _, node := range progress.Requirements {
			if node.ID == rqmt.ID && node.Entry != nil && node.Entry.Completed {
				signedOff = true
			}
		}
		if !signedOff {
			t.Error("Expected sign-off to appear in the progress tree")
		}
	})
}
