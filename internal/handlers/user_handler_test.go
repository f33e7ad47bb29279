package handlers_test

import (
	"bytes"
	"encoding/json"
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

const testProvisionSecret = "provision-secret-for-testing"

func userMux(containers *testutil.TestContainers) *http.ServeMux {
	userRepo := repository.NewUserRepository(containers.DB)
	identityService := service.NewIdentityService(userRepo, repository.NewAuditRepository(containers.DB))

	authConfig := &config.AuthConfig{
		JWTSecret:       string(containers.JWTSecret),
		ProvisionSecret: testProvisionSecret,
	}
	userHandler := handlers.NewUserHandler(identityService, authConfig)

	authMw := middleware.NewAuthMiddleware(auth.NewService(authConfig), userRepo)
	adminOnly := middleware.RequireAnyRole(models.RoleAdmin, models.RoleDev)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/provision", userHandler.Provision)
	mux.HandleFunc("DELETE /api/v1/auth/provision/{id}", userHandler.Deprovision)
	mux.Handle("GET /api/v1/users/me", authMw.Authenticate(http.HandlerFunc(userHandler.GetCurrentUser)))
	mux.Handle("PUT /api/v1/admin/users/{id}/role", authMw.Authenticate(adminOnly(http.HandlerFunc(userHandler.UpdateUserRole))))
	return mux
}

func TestProvisionEndpoint(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	testutil.SetupFixtures(t, containers.DB)
	mux := userMux(containers)

	body, _ := json.Marshal(handlers.ProvisionRequest{
		ID:        uuid.New(),
		Email:     "new@camp.test",
		FirstName: "Noah",
		LastName:  "Newman",
		Role:      "superuser",
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/auth/provision", bytes.NewReader(body))
		req.Header.Set("X-Provision-Secret", "wrong")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
	})

	t.Run("unknown role is coerced to scout", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/auth/provision", bytes.NewReader(body))
		req.Header.Set("X-Provision-Secret", testProvisionSecret)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		var user models.User
		if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if user.Role != models.RoleScout {
			t.Errorf("Expected role scout, got %s", user.Role)
		}
	})

	t.Run("missing id is rejected", func(t *testing.T) {
		bad, _ := json.Marshal(handlers.ProvisionRequest{Email: "no-id@camp.test"})
		req := httptest.NewRequest("POST", "/api/v1/auth/provision", bytes.NewReader(bad))
		req.Header.Set("X-Provision-Secret", testProvisionSecret)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}

func TestGetCurrentUserEndpoint(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	mux := userMux(containers)
	authHelper := testutil.NewAuthHelper()

	req := authHelper.CreateAuthenticatedRequest(t, "GET", "/api/v1/users/me", fixtures.CounselorUser)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var user models.User
	if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if user.Email != fixtures.CounselorUser.Email {
		t.Errorf("Expected email %s, got %s", fixtures.CounselorUser.Email, user.Email)
	}
	if user.Role != models.RoleCounselor {
		t.Errorf("Expected role counselor, got %s", user.Role)
	}
}

func TestUpdateRoleEndpointIsAdminOnly(t *testing.T) {
	containers := testutil.SetupTestContainers(t)
	defer containers.Cleanup(t)

	fixtures := testutil.SetupFixtures(t, containers.DB)
	mux := userMux(containers)
	authHelper := testutil.NewAuthHelper()

	url := "/api/v1/admin/users/" + fixtures.ScoutUser.ID.String() + "/role"
	body, _ := json.Marshal(handlers.UpdateRoleRequest{Role: models.RoleCounselor})

	t.Run("counselor is blocked at the route", func(t *testing.T) {
		req := httptest.NewRequest("PUT", url, bytes.NewReader(body))
		authHelper.AddAuthHeader(t, req, fixtures.CounselorUser)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d", rec.Code)
		}
	})

	t.Run("admin changes the role", func(t *testing.T) {
		req := httptest.NewRequest("PUT", url, bytes.NewReader(body))
		authHelper.AddAuthHeader(t, req, fixtures.AdminUser)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var user models.User
		if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if user.Role != models.RoleCounselor {
			t.Errorf("Expected role counselor, got %s", user.Role)
		}
	})
}
