// Command seed populates the configured store with demo accounts,
// projects, issues and donations for local development.
package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"charityhub/internal/adapter/repo"
	"charityhub/internal/auth"
	"charityhub/internal/domain"
	"charityhub/internal/infra"
	"charityhub/internal/rating"
	"charityhub/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	if cfg.Store != "postgres" {
		logger.Fatal().Msg("seeding requires STORE=postgres")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	if err := repo.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("apply schema")
	}

	users := repo.NewUserRepository(pool)
	projects := repo.NewProjectRepository(pool)
	issues := repo.NewIssueRepository(pool)
	donations := repo.NewDonationRepository(pool)
	notifications := repo.NewNotificationRepository(pool)

	engine := rating.NewEngine(users, rating.DefaultThresholds, logger)
	userSvc := service.NewUserService(users, cfg.JWTSecret, cfg.TokenTTL, logger)
	projectSvc := service.NewProjectService(projects, users, notifications, nil, logger)
	issueSvc := service.NewIssueService(issues, projects, notifications, engine, cfg.XPAwardClose, logger)
	donationSvc := service.NewDonationService(donations, projects, users, notifications, logger)

	owner := ensureUser(ctx, logger, users, userSvc, "owner@example.com", "Project Owner", "password123")
	donor := ensureUser(ctx, logger, users, userSvc, "donor@example.com", "Test Donor", "password123")
	volunteer := ensureUser(ctx, logger, users, userSvc, "volunteer@example.com", "Test Volunteer", "password123")
	admin := ensureUser(ctx, logger, users, userSvc, "admin@example.com", "Site Admin", "password123")
	if admin.Role != domain.UserRoleAdmin {
		admin.Role = domain.UserRoleAdmin
		if err := users.UpdateUser(ctx, admin); err != nil {
			logger.Fatal().Err(err).Msg("promote admin")
		}
	}

	ownerID := auth.Identity{UserID: owner.ID, Role: owner.Role}
	donorID := auth.Identity{UserID: donor.ID, Role: donor.Role}

	existing, err := projects.ListProjectsByMember(ctx, owner.ID)
	if err != nil {
		logger.Fatal().Err(err).Msg("list projects")
	}
	if len(existing) > 0 {
		logger.Info().Int("projects", len(existing)).Msg("sample projects already exist")
		return
	}

	seedProjects := []service.CreateProjectInput{
		{Name: "Food Distribution Center", Description: "Distribute food to local communities in need", GoalAmount: 5000},
		{Name: "School Meal Program", Description: "Provide nutritious meals to school children", GoalAmount: 10000},
		{Name: "Senior Care Meals", Description: "Home-delivered meals for elderly residents", GoalAmount: 7500},
		{Name: "Emergency Food Relief", Description: "Rapid response food distribution during crises", GoalAmount: 15000},
	}
	created := make([]*domain.Project, 0, len(seedProjects))
	for _, in := range seedProjects {
		p, err := projectSvc.Create(ctx, ownerID, in)
		if err != nil {
			logger.Fatal().Err(err).Str("name", in.Name).Msg("create project")
		}
		created = append(created, p)
	}

	first := created[0]
	if _, err := projectSvc.AddMember(ctx, ownerID, first.ID, volunteer.ID); err != nil {
		logger.Fatal().Err(err).Msg("add volunteer")
	}
	issue, err := issueSvc.Create(ctx, ownerID, service.CreateIssueInput{
		ProjectID:   first.ID,
		Title:       "Find a refrigerated van",
		Description: "Weekend deliveries need cold storage on the road",
		Category:    "logistics",
		Priority:    domain.IssuePriorityHigh,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create issue")
	}
	if _, err := issueSvc.Assign(ctx, ownerID, issue.ID, volunteer.ID); err != nil {
		logger.Fatal().Err(err).Msg("assign issue")
	}
	if _, err := donationSvc.Record(ctx, donorID, first.ID, 250, false); err != nil {
		logger.Fatal().Err(err).Msg("record donation")
	}
	if _, err := donationSvc.Record(ctx, donorID, first.ID, 100, true); err != nil {
		logger.Fatal().Err(err).Msg("record donation")
	}

	logger.Info().
		Int("projects", len(created)).
		Str("owner", owner.Email).
		Str("donor", donor.Email).
		Msg("seed complete; all demo passwords are password123")
}

func ensureUser(ctx context.Context, logger zerolog.Logger, users domain.UserRepository, svc *service.UserService, email, name, password string) *domain.User {
	user, err := users.GetUserByEmail(ctx, email)
	if err == nil {
		return user
	}
	if !errors.Is(err, domain.ErrNotFound) {
		logger.Fatal().Err(err).Str("email", email).Msg("load user")
	}
	user, err = svc.Register(ctx, service.RegisterInput{Name: name, Email: email, Password: password})
	if err != nil {
		logger.Fatal().Err(err).Str("email", email).Msg("register user")
	}
	return user
}
