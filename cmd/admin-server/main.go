package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"ebookstore/database"
	"ebookstore/internal/admin-api/events"
	"ebookstore/internal/admin-api/handler"
	"ebookstore/internal/admin-api/middleware"
	"ebookstore/internal/admin-api/repository"
	"ebookstore/internal/admin-api/service"
	"ebookstore/internal/config"
	"ebookstore/internal/push"
	"ebookstore/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	rdb := newRedisClient(cfg, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	bus := events.NewBus(rdb, logger)

	// repositories
	bookRepo := repository.NewBookRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// services
	authSvc := service.NewAuthService(userRepo, cfg)
	bookSvc := service.NewBookService(bookRepo, bus, cfg.CategoryMissingPolicy, logger)
	categorySvc := service.NewCategoryService(categoryRepo, bus)
	couponSvc := service.NewCouponService(couponRepo, bus)
	userSvc := service.NewUserService(userRepo, orderRepo, bus)
	reportSvc := service.NewReportService(orderRepo, rdb, time.Duration(cfg.CacheTTL)*time.Second, logger)

	gateway := push.NewClient(cfg.PushGatewayURL, cfg.PushAPIKey)
	notificationSvc := service.NewNotificationService(notificationRepo, userRepo, gateway, bus, cfg.InactiveWindow, logger)

	uploader := storage.NewUploader(storage.NewFSBackend(cfg.UploadDir), cfg.UploadBaseURL, cfg.UploadMaxSize, cfg.UploadTimeout)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = cfg.UploadMaxSize

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.Static("/uploads", cfg.UploadDir)

	api := r.Group("/api/admin")
	authHandler := handler.NewAuthHandler(authSvc)
	api.POST("/auth/login", middleware.LoginRateLimiter(), authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc), middleware.RequireAdmin(cfg.AdminEmail))

	handler.NewBookHandler(bookSvc).RegisterRoutes(protected.Group("/books"))
	handler.NewCategoryHandler(categorySvc, categoryRepo).RegisterRoutes(protected.Group("/categories"))
	handler.NewCouponHandler(couponSvc).RegisterRoutes(protected.Group("/coupons"))
	handler.NewUserHandler(userSvc).RegisterRoutes(protected.Group("/users"))
	handler.NewNotificationHandler(notificationSvc).RegisterRoutes(protected.Group("/notifications"))
	handler.NewReportHandler(reportSvc).RegisterRoutes(protected.Group("/reports"))
	handler.NewUploadHandler(uploader).RegisterRoutes(protected.Group("/uploads"))
	handler.NewEventsHandler(bus).RegisterRoutes(protected.Group("/events"))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		logger.Info("admin server listening", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// newRedisClient returns nil when Redis is not configured; the cache and the
// change feed degrade to no-ops in that case.
func newRedisClient(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, continuing without redis", "error", err)
		return nil
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, continuing without redis", "error", err)
		rdb.Close()
		return nil
	}
	return rdb
}
