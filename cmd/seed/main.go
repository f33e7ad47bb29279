package main

import (
	"encoding/json"
	"flag"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"merittrack/internal/config"
	"merittrack/internal/database"
	"merittrack/internal/logger"
	"merittrack/internal/models"
	"merittrack/internal/repository"
)

// seedRequirement is one requirement node in the seed file, with its
// sub-requirements nested
type seedRequirement struct {
	Identifier   string            `json:"identifier"`
	Description  string            `json:"description"`
	Requirements []seedRequirement `json:"requirements,omitempty"`
}

type seedBadge struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	IsEagleRequired bool              `json:"is_eagle_required"`
	Requirements    []seedRequirement `json:"requirements"`
}

type seedDepartment struct {
	Name   string      `json:"name"`
	Badges []seedBadge `json:"badges"`
}

type seedFile struct {
	Departments []seedDepartment `json:"departments"`
}

// Loads a curriculum seed file and inserts departments, badges, and
// requirement trees. Existing departments and badges are reused by name, so
// re-running against a seeded database is safe.
func main() {
	path := flag.String("file", "seed/curriculum.json", "path to the curriculum seed file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Setup(logger.Config{
		Level: cfg.Log.Level,
		Env:   cfg.App.Env,
	})

	raw, err := os.ReadFile(*path)
	if err != nil {
		slog.Error("Failed to read seed file", "path", *path, "error", err)
		os.Exit(1)
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		slog.Error("Failed to parse seed file", "path", *path, "error", err)
		os.Exit(1)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	migrator := database.NewMigrationExecutor(db.DB)
	if err := migrator.RunMigrations("./migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	departmentRepo := repository.NewDepartmentRepository(db.DB)
	badgeRepo := repository.NewBadgeRepository(db.DB)
	requirementRepo := repository.NewRequirementRepository(db.DB)

	var badges, requirements int
	for _, sd := range seed.Departments {
		department, err := departmentRepo.GetByName(sd.Name)
		if err != nil {
			department = &models.Department{Name: sd.Name}
			if err := departmentRepo.Create(department); err != nil {
				slog.Error("Failed to create department", "name", sd.Name, "error", err)
				os.Exit(1)
			}
		}

		for _, sb := range sd.Badges {
			if _, err := badgeRepo.GetByName(sb.Name); err == nil {
				slog.Info("Badge already seeded, skipping", "name", sb.Name)
				continue
			}

			badge := &models.MeritBadge{
				Name:            sb.Name,
				Description:     sb.Description,
				IsEagleRequired: sb.IsEagleRequired,
				DepartmentID:    department.ID,
			}
			if err := badgeRepo.Create(badge); err != nil {
				slog.Error("Failed to create badge", "name", sb.Name, "error", err)
				os.Exit(1)
			}
			badges++

			n, err := insertRequirements(requirementRepo, badge.ID, nil, sb.Requirements)
			if err != nil {
				slog.Error("Failed to create requirements", "badge", sb.Name, "error", err)
				os.Exit(1)
			}
			requirements += n
		}
	}

	slog.Info("Seeding completed", "badges", badges, "requirements", requirements)
}

func insertRequirements(repo *repository.RequirementRepository, badgeID uuid.UUID, parentID *uuid.UUID, nodes []seedRequirement) (int, error) {
	count := 0
	for _, node := range nodes {
		rqmt := &models.Requirement{
			BadgeID:             badgeID,
			Identifier:          node.Identifier,
			Description:         node.Description,
			ParentRequirementID: parentID,
		}
		if err := repo.Create(rqmt); err != nil {
			return count, err
		}
		count++

		n, err := insertRequirements(repo, badgeID, &rqmt.ID, node.Requirements)
		if err != nil {
			return count + n, err
		}
		count += n
	}
	return count, nil
}
