package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"charityhub/internal/adapter/memory"
	"charityhub/internal/adapter/repo"
	"charityhub/internal/domain"
	"charityhub/internal/http/handlers"
	"charityhub/internal/http/httpapi"
	"charityhub/internal/infra"
	"charityhub/internal/infra/geoip"
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

	ctx := context.Background()

	var (
		users         domain.UserRepository
		projects      domain.ProjectRepository
		issues        domain.IssueRepository
		donations     domain.DonationRepository
		notifications domain.NotificationRepository
	)
	switch cfg.Store {
	case "memory":
		store := memory.New()
		users, projects, issues, donations, notifications = store, store, store, store, store
		logger.Warn().Msg("using in-memory store; data is lost on restart")
	default:
		pool, err := infra.NewDBPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer pool.Close()
		users = repo.NewUserRepository(pool)
		projects = repo.NewProjectRepository(pool)
		issues = repo.NewIssueRepository(pool)
		donations = repo.NewDonationRepository(pool)
		notifications = repo.NewNotificationRepository(pool)
	}

	locator, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	var projectLocator service.Locator
	if locator != nil {
		defer locator.Close()
		projectLocator = locator
	}

	engine := rating.NewEngine(users, rating.Thresholds{T1: cfg.RatingT1, T2: cfg.RatingT2, T3: cfg.RatingT3}, logger)

	userSvc := service.NewUserService(users, cfg.JWTSecret, cfg.TokenTTL, logger)
	projectSvc := service.NewProjectService(projects, users, notifications, projectLocator, logger)
	issueSvc := service.NewIssueService(issues, projects, notifications, engine, cfg.XPAwardClose, logger)
	donationSvc := service.NewDonationService(donations, projects, users, notifications, logger)
	notificationSvc := service.NewNotificationService(notifications, logger)

	app := handlers.NewApp(userSvc, projectSvc, issueSvc, donationSvc, notificationSvc, engine, logger)
	router := httpapi.NewRouter(app, cfg)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
