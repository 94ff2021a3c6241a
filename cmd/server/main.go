package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"transporterp/config"
	"transporterp/db"
	"transporterp/db/memory"
	"transporterp/db/postgres"
	"transporterp/handlers"
	"transporterp/jobs"
	"transporterp/models"
	"transporterp/repository"
	"transporterp/routes"
	"transporterp/services"
	"transporterp/utils"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// Load config from .env or environment
	cfg := config.LoadConfig()
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET not set in environment")
	}

	var (
		conn        db.DB
		tripStore   repository.TripStore
		masterRepo  repository.MasterRepository
		expenseRepo repository.ExpenseRepository
		reportRepo  repository.ReportRepository
		userRepo    repository.UserRepository
	)

	switch db.DBType(cfg.DBType) {
	case db.Postgres:
		if cfg.PostgresURL == "" {
			return errors.New("POSTGRES_URL not set in environment")
		}
		pg := postgres.NewPostgresDB(cfg.PostgresURL, postgres.PoolConfig{
			MaxOpenConns: cfg.MaxOpenConns,
			MaxIdleConns: cfg.MaxIdleConns,
		})
		if err := pg.Connect(); err != nil {
			return err
		}
		conn = pg

		if cfg.RunMigrations {
			if err := db.RunMigrations(pg.Conn); err != nil {
				return err
			}
		}

		tripStore = repository.NewPostgresTripRepo(pg.Conn, cfg.LockTimeout)
		masterRepo = repository.NewPostgresMasterRepo(pg.Conn)
		expenseRepo = repository.NewPostgresExpenseRepo(pg.Conn)
		reportRepo = repository.NewPostgresReportRepo(pg.Conn)
		userRepo = repository.NewPostgresUserRepo(pg.Conn)

	case db.Memory:
		mem := memory.NewMemoryDB()
		if err := mem.Connect(); err != nil {
			return err
		}
		conn = mem
		logger.Warn("using in-memory store, data is lost on exit")

		tripStore = mem.Store
		masterRepo = mem.Store
		expenseRepo = mem.Store
		reportRepo = mem.Store
		userRepo = mem.Store

	default:
		return errors.New("DB_TYPE not supported: " + cfg.DBType)
	}
	defer func() {
		if err := conn.Disconnect(); err != nil {
			logger.Error("failed to disconnect database", "error", err)
		}
	}()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	err := bootstrapAdmin(bootCtx, userRepo, cfg, logger)
	bootCancel()
	if err != nil {
		return err
	}

	// Services
	tripService := services.NewTripService(tripStore, masterRepo, logger)

	renderer, err := utils.NewSlipPDFRenderer(cfg.SlipTemplate)
	if err != nil {
		return err
	}
	printService := &services.PrintService{
		Trips:         tripService,
		Renderer:      renderer,
		AmountInWords: utils.AmountToWords,
	}

	var storage handlers.PODStorage
	if cfg.R2.Enabled() {
		uploader, err := utils.NewR2Uploader(context.Background(), cfg.R2)
		if err != nil {
			return err
		}
		storage = uploader
	} else {
		logger.Info("R2 not configured, POD file uploads disabled")
	}

	// Scheduled jobs
	if cfg.PODNormalizeSchedule != "" {
		normalizer := jobs.NewPODNormalizer(tripService, 5*time.Minute)
		if err := normalizer.Start(cfg.PODNormalizeSchedule); err != nil {
			return err
		}
		defer normalizer.Stop()
	}

	// Routes
	router := routes.SetupRoutes(routes.Handlers{
		Trips:    &handlers.TripHandler{Service: tripService, Storage: storage},
		PDF:      &handlers.PDFHandler{Service: printService},
		Masters:  &handlers.MasterHandler{Repo: masterRepo},
		Payments: &handlers.PaymentHistoryHandler{Store: tripStore},
		Reports:  &handlers.ReportHandler{Repo: reportRepo},
		Expenses: &handlers.ExpenseHandler{Repo: expenseRepo},
		Users:    &handlers.UserHandler{Repo: userRepo, JWTSecret: cfg.JWTSecret, JWTTTL: cfg.JWTTTL},
	}, routes.Options{
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		JWTSecret:      cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "port", cfg.Port, "db_type", cfg.DBType)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout+5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// bootstrapAdmin creates the configured admin account on first start.
func bootstrapAdmin(ctx context.Context, users repository.UserRepository, cfg *config.Config, logger *slog.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	existing, err := users.GetUserByEmail(ctx, cfg.AdminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	admin := &models.AppUser{Email: cfg.AdminEmail, Password: cfg.AdminPassword, Role: models.RoleAdmin}
	if err := users.CreateUser(ctx, admin); err != nil {
		return err
	}
	logger.Info("admin user created", "email", admin.Email)
	return nil
}
