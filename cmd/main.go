package main

import (
	"context"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaban-x/kaban-backend/internal/api"
	"github.com/kaban-x/kaban-backend/internal/auth"
	"github.com/kaban-x/kaban-backend/internal/config"
	"github.com/kaban-x/kaban-backend/internal/db"
	"github.com/kaban-x/kaban-backend/internal/mail"
	"github.com/kaban-x/kaban-backend/internal/repository"
	"github.com/kaban-x/kaban-backend/internal/service"
	"github.com/kaban-x/kaban-backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	logger, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err = pool.Ping(context.Background()); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	logger.Info("database connection established")

	transactor := db.NewPgxTransactor(pool)

	userRepo := repository.NewPgxUserRepository(pool)
	teamRepo := repository.NewPgxTeamRepository(pool)
	membershipRepo := repository.NewPgxMembershipRepository(pool)
	deskRepo := repository.NewPgxDeskRepository(pool)
	projectRepo := repository.NewPgxProjectRepository(pool)
	sectionRepo := repository.NewPgxSectionRepository(pool)
	ticketRepo := repository.NewPgxTicketRepository(pool)

	tokens := auth.NewTokenManager(cfg.TokenSecret, auth.TokenTTL{
		Access:     cfg.AccessTokenTTL,
		Refresh:    cfg.RefreshTokenTTL,
		Activation: cfg.ActivationTokenTTL,
		Reset:      cfg.ResetTokenTTL,
	})

	mailer := mail.NewSMTPMailer(cfg.SMTP, cfg.FrontendURL)

	authService := service.NewAuthService(tokens).WithUserRepo(userRepo).WithMailer(mailer)
	userService := service.NewUserService(tokens).WithUserRepo(userRepo)
	teamService := service.NewTeamService().WithTeamRepo(teamRepo)
	projectService := service.NewProjectService(transactor).
		WithProjectRepo(projectRepo).
		WithTeamRepo(teamRepo).
		WithMembershipRepo(membershipRepo).
		WithDeskRepo(deskRepo).
		WithSectionRepo(sectionRepo).
		WithTicketRepo(ticketRepo).
		WithUserRepo(userRepo)
	boardService := service.NewBoardService().
		WithProjectRepo(projectRepo).
		WithTeamRepo(teamRepo).
		WithMembershipRepo(membershipRepo).
		WithSectionRepo(sectionRepo).
		WithTicketRepo(ticketRepo)

	healthChecker := api.MustNewHealthChecker(health.Config{
		Name:    "postgres",
		Timeout: 2 * time.Second,
		Check: func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
	})

	e := echo.New()

	handler := api.NewHandler(logger).
		WithHealthChecker(healthChecker).
		WithAuthService(authService).
		WithUserService(userService).
		WithTeamService(teamService).
		WithProjectService(projectService).
		WithBoardService(boardService)

	handler.RegisterRoutes(e)

	logger.Info("server starting", zap.String("addr", cfg.Addr()))
	if err = e.Start(cfg.Addr()); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
