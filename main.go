package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sync-service/internal/config"
	"sync-service/internal/db"
	"sync-service/internal/gateway"
	"sync-service/internal/handlers"
	"sync-service/internal/middleware"
	"sync-service/internal/observability"
	"sync-service/internal/rabbitmq"
	"sync-service/internal/repositories"
	"sync-service/internal/syncer"
	"sync-service/internal/telemetry"
)

const serviceName = "sync-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Tracing.OTLPEndpoint, serviceName, cfg.Tracing.Environment)
	if err != nil {
		logger.Fatal("failed to set up tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	database, err := db.Connect(cfg.Database.DSN, logger)
	if err != nil {
		logger.Fatal("failed to connect to db", zap.Error(err))
	}
	defer database.Close()

	instanceRepo := repositories.NewInstanceRepo(database)
	groupRepo := repositories.NewGroupRepo(database)
	memberRepo := repositories.NewMemberRepo(database)
	membershipRepo := repositories.NewMembershipRepo(database)
	messageRepo := repositories.NewMessageRepo(database)

	gatewayClient := gateway.NewHTTPClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.Timeout, logger)

	publisher := rabbitmq.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, logger)
	defer publisher.Close()
	emitter := telemetry.NewEventEmitter(publisher, "sync.events", serviceName, cfg.Tracing.Environment, logger)

	service := syncer.NewService(gatewayClient, instanceRepo, groupRepo, memberRepo, membershipRepo, messageRepo, emitter, logger)

	worker := syncer.NewBatchWorker(service, cfg.Sync.GroupPace, logger)
	worker.Start(ctx)
	defer worker.Stop()

	if cfg.Sync.NightlyMetadata {
		scheduler, err := startNightlySync(service, cfg.Gateway.DefaultInstance, logger)
		if err != nil {
			logger.Fatal("failed to start scheduler", zap.Error(err))
		}
		if scheduler != nil {
			defer func() { _ = scheduler.Shutdown() }()
		}
	}

	syncHandler := handlers.NewSyncHandler(service, worker, cfg.Gateway.DefaultInstance)
	webhookHandler := handlers.NewWebhookHandler(service, logger)
	adminHandler := handlers.NewAdminHandler(service, cfg.Gateway.DefaultInstance, cfg.Sync.InjectGroupJID)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(otelgin.Middleware(serviceName))
	router.Use(observability.HTTPMetricsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.POST("/sync/groups", syncHandler.SyncGroups)
	api.POST("/sync/group-members", syncHandler.RescueGroupMembers)
	api.POST("/sync/full", syncHandler.FullSync)
	api.POST("/sync/messages", syncHandler.HarvestMessages)
	api.POST("/webhook/events", webhookHandler.HandleEvent)
	api.POST("/admin/inject-members", adminHandler.InjectMembers)
	api.POST("/admin/verify-sync", adminHandler.VerifySync)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening",
			zap.String("port", cfg.Server.Port),
			zap.String("amqp_mode", rabbitmq.Mode(publisher)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
}

// startNightlySync refreshes group metadata for the default instance every
// midnight. Skipped with a warning when no default instance is configured.
func startNightlySync(service *syncer.Service, instance string, logger *zap.Logger) (gocron.Scheduler, error) {
	if instance == "" {
		logger.Warn("nightly metadata sync enabled but no default instance configured, skipping")
		return nil, nil
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, err
	}

	_, err = scheduler.NewJob(
		gocron.CronJob("0 0 * * *", false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			result, err := service.SyncGroupMetadata(ctx, instance)
			if err != nil {
				logger.Error("nightly metadata sync failed", zap.Error(err))
				return
			}
			logger.Info("nightly metadata sync complete",
				zap.Int("fetched", result.Fetched),
				zap.Int("synced", result.Synced))
		}),
		gocron.WithName("nightly-metadata-sync"),
	)
	if err != nil {
		return nil, err
	}

	scheduler.Start()
	logger.Info("nightly metadata sync scheduled", zap.String("instance", instance))
	return scheduler, nil
}

func buildLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zcfg zap.Config
	if cfg.Format == "text" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
