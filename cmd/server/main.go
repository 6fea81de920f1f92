package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trainer_dashboard/internal/auth"
	"trainer_dashboard/internal/cache"
	"trainer_dashboard/internal/config"
	"trainer_dashboard/internal/database"
	"trainer_dashboard/internal/handlers"
	"trainer_dashboard/internal/jobs"
	"trainer_dashboard/internal/logger"
	"trainer_dashboard/internal/middleware"
	"trainer_dashboard/internal/migrations"
	"trainer_dashboard/internal/redis"
	"trainer_dashboard/internal/repository"
	"trainer_dashboard/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()
	appLogger := logger.New(cfg.Debug)

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseDriver, cfg.DatabaseURL, cfg.DatabaseLogLevel)
	if err != nil {
		appLogger.Fatal(fmt.Errorf("failed to connect to database: %w", err))
	}
	defer database.Close(db)

	if err := migrations.Run(db); err != nil {
		appLogger.Fatal(fmt.Errorf("failed to migrate database: %w", err))
	}
	if err := migrations.Seed(db, migrations.SeedOptions{
		AdminJSID:     cfg.SeedAdminJSID,
		AdminPassword: cfg.SeedAdminPassword,
	}); err != nil {
		appLogger.Fatal(fmt.Errorf("failed to seed database: %w", err))
	}

	// Aggregate cache: redis when configured, in-process otherwise
	var aggregateCache cache.Cache
	if cfg.RedisURL != "" {
		redisClient, err := redis.Initialize(cfg.RedisURL)
		if err != nil {
			appLogger.Fatal(fmt.Errorf("failed to connect to redis: %w", err))
		}
		defer redisClient.Close()
		aggregateCache = cache.NewRedisCache(redisClient)
		appLogger.Info("Aggregate cache: redis")
	} else {
		memoryCache, err := cache.NewMemoryCache(cfg.CacheSize)
		if err != nil {
			appLogger.Fatal(fmt.Errorf("failed to create memory cache: %w", err))
		}
		aggregateCache = memoryCache
		appLogger.Info("Aggregate cache: memory")
	}
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	aggRepo := repository.NewAggregateRepository(db)
	typeRepo := repository.NewTaskTypeRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	queryRepo := repository.NewQueryRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	// Initialize services
	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	auditService := services.NewAuditService(auditRepo, appLogger)
	authService := services.NewAuthService(userRepo, issuer, auditService)
	svc := handlers.Services{
		Auth:          authService,
		Tasks:         services.NewTaskService(taskRepo, userRepo, auditService, aggregateCache, appLogger),
		Users:         services.NewUserService(userRepo, auditService, aggregateCache, appLogger, cfg.DefaultPassword),
		Aggregates:    services.NewAggregationService(aggRepo, userRepo, aggregateCache, cacheTTL, appLogger),
		TaskTypes:     services.NewTaskTypeService(typeRepo, auditService),
		Announcements: services.NewAnnouncementService(announcementRepo, userRepo, auditService),
		Queries:       services.NewQueryService(queryRepo, userRepo, auditService),
		Audit:         auditService,
		Export:        services.NewExportService(aggRepo),
	}

	// Maintenance jobs
	if cfg.AuditRetentionDays > 0 {
		retention := jobs.NewAuditRetention(auditService, cfg.AuditRetentionDays, cfg.AuditPruneSchedule, appLogger)
		if err := retention.Start(); err != nil {
			appLogger.Fatal(fmt.Errorf("failed to start audit retention: %w", err))
		}
		defer retention.Stop()
	}

	// Setup routes
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(middleware.RequestID(), gin.LoggerWithFormatter(middleware.LogFormatter), gin.Recovery())

	apiHandler := handlers.NewAPIHandler(svc, database.NewPinger(db), appLogger, cfg.Location())
	apiHandler.Register(router, authService)

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal(fmt.Errorf("failed to start server: %w", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
