package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/resource-planning-api/internal/config"
	"github.com/yukikurage/resource-planning-api/internal/constants"
	"github.com/yukikurage/resource-planning-api/internal/database"
	"github.com/yukikurage/resource-planning-api/internal/handlers"
	"github.com/yukikurage/resource-planning-api/internal/hrclient"
	"github.com/yukikurage/resource-planning-api/internal/logging"
	"github.com/yukikurage/resource-planning-api/internal/middleware"
	"github.com/yukikurage/resource-planning-api/internal/repository"
	"github.com/yukikurage/resource-planning-api/internal/scheduler"
	"github.com/yukikurage/resource-planning-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.Setup("info", false)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	db := database.GetDB()

	if err := database.MigrateDatabase(db, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	store, err := newSessionStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create session store")
	}

	// Repositories and services
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	personRepo := repository.NewPersonRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var fetcher services.LeaveFetcher
	if cfg.HolidaySyncEnabled() {
		fetcher = hrclient.New(ctx, hrclient.Config{
			ClientID:     cfg.ZenHRClientID,
			ClientSecret: cfg.ZenHRClientSecret,
			TokenURL:     cfg.ZenHRTokenURL,
			BaseURL:      cfg.ZenHRBaseURL,
			BranchID:     cfg.ZenHRBranchID,
			Timeout:      30 * time.Second,
		})
	} else {
		logger.Warn().Msg("ZenHR credentials missing or sync disabled, leave sync is off")
	}
	leaveSync := services.NewLeaveSyncService(repository.NewLeaveRepository(db), fetcher, logger)

	svc := handlers.Services{
		Auth: services.NewAuthService(
			userRepo,
			orgRepo,
			repository.NewOTPRepository(db),
			services.NewLogOTPSender(logger),
			services.AuthConfig{CodeTTL: cfg.OTPTTL, DevCode: cfg.DevOTPCode},
		),
		Organizations: services.NewOrganizationService(orgRepo, userRepo),
		Projects:      services.NewProjectService(projectRepo),
		People:        services.NewPersonService(personRepo),
		Assignments:   services.NewAssignmentService(assignmentRepo, projectRepo, personRepo),
		Dashboard:     services.NewDashboardService(projectRepo, personRepo),
		Export:        services.NewExportService(personRepo),
		Leave:         leaveSync,
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(logger))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Resource Planning API is running",
		})
	})

	handlers.RegisterRoutes(r.Group("/api"), svc)

	var syncRunner *scheduler.Runner
	if fetcher != nil {
		syncRunner = scheduler.NewRunner("leave_sync", cfg.HolidaySyncEvery, func(ctx context.Context) error {
			_, err := leaveSync.Sync(ctx, services.SyncScheduled)
			return err
		}, logger)
		syncRunner.Start()
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	if syncRunner != nil {
		syncRunner.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	switch cfg.SessionStore {
	case "redis":
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(10, "tcp", redisAddr, "", "", []byte(cfg.SessionSecret))
		if err != nil {
			return nil, err
		}
		store = rs
	default:
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
