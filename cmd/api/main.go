package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "merittrack/docs" // This is for Swagger
	"merittrack/internal/auth"
	"merittrack/internal/config"
	"merittrack/internal/database"
	"merittrack/internal/handlers"
	"merittrack/internal/logger"
	"merittrack/internal/middleware"
	"merittrack/internal/models"
	"merittrack/internal/repository"
	"merittrack/internal/service"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title MeritTrack API
// @version 1.0
// @description Backend API for merit badge achievement tracking at scout summer camps

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logger
	logger.Setup(logger.Config{
		Level: cfg.Log.Level,
		Env:   cfg.App.Env,
	})

	slog.Info("Starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
		"log_level", cfg.Log.Level,
	)

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func(db *database.Database) {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}(db)

	slog.Info("Database connection established")

	// Run database migrations
	migrator := database.NewMigrationExecutor(db.DB)
	if err := migrator.RunMigrations("./migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	departmentRepo := repository.NewDepartmentRepository(db.DB)
	troopRepo := repository.NewTroopRepository(db.DB)
	scoutRepo := repository.NewScoutRepository(db.DB)
	leaderRepo := repository.NewScoutLeaderRepository(db.DB)
	badgeRepo := repository.NewBadgeRepository(db.DB)
	requirementRepo := repository.NewRequirementRepository(db.DB)
	scoutBadgeRepo := repository.NewScoutBadgeRepository(db.DB)
	activityRepo := repository.NewActivityRepository(db.DB)
	auditRepo := repository.NewAuditRepository(db.DB)

	// Initialize services
	authService := auth.NewService(&cfg.Auth)
	identityService := service.NewIdentityService(userRepo, auditRepo)
	departmentService := service.NewDepartmentService(departmentRepo, userRepo, auditRepo)
	rosterService := service.NewRosterService(troopRepo, scoutRepo, leaderRepo, auditRepo)
	curriculumService := service.NewCurriculumService(badgeRepo, requirementRepo, departmentRepo, auditRepo)
	progressService := service.NewProgressService(scoutBadgeRepo, scoutRepo, badgeRepo, requirementRepo, userRepo, auditRepo)
	activityService := service.NewActivityService(activityRepo, badgeRepo, auditRepo)

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(authService, userRepo)
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(identityService, &cfg.Auth)
	departmentHandler := handlers.NewDepartmentHandler(departmentService)
	rosterHandler := handlers.NewRosterHandler(rosterService)
	curriculumHandler := handlers.NewCurriculumHandler(curriculumService)
	progressHandler := handlers.NewProgressHandler(progressService)
	activityHandler := handlers.NewActivityHandler(activityService)
	auditHandler := handlers.NewAuditHandler(identityService)

	// Setup router
	mux := http.NewServeMux()

	authed := func(h http.HandlerFunc) http.Handler {
		return authMw.Authenticate(h)
	}
	adminOnly := middleware.RequireAnyRole(models.RoleAdmin, models.RoleDev)

	// Provisioning webhook (guarded by the shared secret, not by JWT)
	mux.HandleFunc("POST /api/v1/auth/provision", userHandler.Provision)
	mux.HandleFunc("DELETE /api/v1/auth/provision/{id}", userHandler.Deprovision)

	// User routes
	mux.Handle("GET /api/v1/users/me", authed(userHandler.GetCurrentUser))
	mux.Handle("GET /api/v1/users", authed(userHandler.GetAllUsers))
	mux.Handle("GET /api/v1/users/{id}", authed(userHandler.GetUserByID))
	mux.Handle("PUT /api/v1/admin/users/{id}/role", authMw.Authenticate(adminOnly(http.HandlerFunc(userHandler.UpdateUserRole))))

	// Department routes
	mux.Handle("GET /api/v1/departments", authed(departmentHandler.GetAllDepartments))
	mux.Handle("GET /api/v1/departments/{id}", authed(departmentHandler.GetDepartmentByID))
	mux.Handle("POST /api/v1/admin/departments", authMw.Authenticate(adminOnly(http.HandlerFunc(departmentHandler.CreateDepartment))))
	mux.Handle("PUT /api/v1/admin/departments/{id}", authMw.Authenticate(adminOnly(http.HandlerFunc(departmentHandler.UpdateDepartment))))
	mux.Handle("DELETE /api/v1/admin/departments/{id}", authMw.Authenticate(adminOnly(http.HandlerFunc(departmentHandler.DeleteDepartment))))

	// Troop, scout, and leader routes
	mux.Handle("GET /api/v1/troops", authed(rosterHandler.GetAllTroops))
	mux.Handle("POST /api/v1/troops", authed(rosterHandler.CreateTroop))
	mux.Handle("GET /api/v1/troops/{id}", authed(rosterHandler.GetTroopByID))
	mux.Handle("PUT /api/v1/troops/{id}", authed(rosterHandler.UpdateTroop))
	mux.Handle("DELETE /api/v1/troops/{id}", authed(rosterHandler.DeleteTroop))
	mux.Handle("GET /api/v1/troops/{id}/scouts", authed(rosterHandler.GetScoutsByTroop))
	mux.Handle("GET /api/v1/troops/{id}/leaders", authed(rosterHandler.GetScoutLeadersByTroop))
	mux.Handle("POST /api/v1/scouts", authed(rosterHandler.CreateScout))
	mux.Handle("GET /api/v1/scouts/{id}", authed(rosterHandler.GetScoutByID))
	mux.Handle("PUT /api/v1/scouts/{id}", authed(rosterHandler.UpdateScout))
	mux.Handle("DELETE /api/v1/scouts/{id}", authed(rosterHandler.DeleteScout))
	mux.Handle("POST /api/v1/leaders", authed(rosterHandler.CreateScoutLeader))
	mux.Handle("PUT /api/v1/leaders/{id}", authed(rosterHandler.UpdateScoutLeader))
	mux.Handle("DELETE /api/v1/leaders/{id}", authed(rosterHandler.DeleteScoutLeader))

	// Curriculum routes
	mux.Handle("GET /api/v1/badges", authed(curriculumHandler.GetAllBadges))
	mux.Handle("GET /api/v1/badges/{id}", authed(curriculumHandler.GetBadgeByID))
	mux.Handle("POST /api/v1/admin/badges", authMw.Authenticate(adminOnly(http.HandlerFunc(curriculumHandler.CreateBadge))))
	mux.Handle("PUT /api/v1/admin/badges/{id}", authMw.Authenticate(adminOnly(http.HandlerFunc(curriculumHandler.UpdateBadge))))
	mux.Handle("DELETE /api/v1/admin/badges/{id}", authMw.Authenticate(adminOnly(http.HandlerFunc(curriculumHandler.DeleteBadge))))
	mux.Handle("POST /api/v1/admin/badges/{id}/requirements", authMw.Authenticate(adminOnly(http.HandlerFunc(curriculumHandler.CreateRequirement))))
	mux.Handle("PUT /api/v1/admin/badges/{id}/requirements/{requirementId}", authMw.Authenticate(adminOnly(http.HandlerFunc(curriculumHandler.UpdateRequirement))))
	mux.Handle("DELETE /api/v1/admin/badges/{id}/requirements/{requirementId}", authMw.Authenticate(adminOnly(http.HandlerFunc(curriculumHandler.DeleteRequirement))))

	// Progress routes
	mux.Handle("POST /api/v1/scout-badges", authed(progressHandler.StartBadge))
	mux.Handle("GET /api/v1/scout-badges/{id}", authed(progressHandler.GetProgress))
	mux.Handle("DELETE /api/v1/scout-badges/{id}", authed(progressHandler.DeleteEnrollment))
	mux.Handle("PUT /api/v1/scout-badges/{id}/completion", authed(progressHandler.SignOffBadge))
	mux.Handle("PUT /api/v1/scout-badges/{id}/requirements/{requirementId}", authed(progressHandler.SignOffRequirement))
	mux.Handle("GET /api/v1/scouts/{id}/progress", authed(progressHandler.GetScoutProgress))

	// Activity routes
	mux.Handle("GET /api/v1/activities", authed(activityHandler.GetActivities))
	mux.Handle("POST /api/v1/activities", authed(activityHandler.CreateActivity))
	mux.Handle("GET /api/v1/activities/{id}", authed(activityHandler.GetActivityByID))
	mux.Handle("PUT /api/v1/activities/{id}", authed(activityHandler.UpdateActivity))
	mux.Handle("DELETE /api/v1/activities/{id}", authed(activityHandler.DeleteActivity))

	// Audit log routes
	mux.Handle("GET /api/v1/admin/audit-logs", authMw.Authenticate(adminOnly(http.HandlerFunc(auditHandler.GetAuditLogs))))

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := db.HealthCheck(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"error"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","version":"` + cfg.App.Version + `"}`))
	})

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Apply global middleware
	handler := middleware.LoggingMiddleware(
		middleware.SecurityHeaders(
			corsMw.Handler(
				rateLimiter.Limit(mux),
			),
		),
	)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
