package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/voice2action/civic-service/internal/api/http"
	"github.com/voice2action/civic-service/internal/api/http/handlers"
	"github.com/voice2action/civic-service/internal/auth"
	"github.com/voice2action/civic-service/internal/config"
	"github.com/voice2action/civic-service/internal/events"
	"github.com/voice2action/civic-service/internal/observability"
	"github.com/voice2action/civic-service/internal/persistence"
	"github.com/voice2action/civic-service/internal/repository"
	"github.com/voice2action/civic-service/internal/service"
	"github.com/voice2action/civic-service/internal/triage"
	"github.com/voice2action/civic-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongo, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongo", zap.Error(err))
	}
	defer mongo.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	issueRepo := repository.NewIssueRepository(mongo.Collection("issues"))
	orgRepo := repository.NewOrganizationRepository(mongo.Collection("organizations"))
	adminUserRepo := repository.NewAdminUserRepository(mongo.Collection("admin_users"))

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:  issueRepo,
		OrgRepo:    orgRepo,
		Scorer:     triage.NewLexiconScorer(),
		Dispatcher: dispatcher,
	})
	metricsService := service.NewMetricsService(issueRepo, orgRepo)
	budgetService := service.NewBudgetService(metricsService)
	authService := service.NewAuthService(*cfg, adminUserRepo)
	authMiddleware := auth.NewMiddleware(authService.TokenManager(), adminUserRepo)

	appMetrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, appMetrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, mongo, redis),
		Issues:         handlers.NewIssuesHandler(issueService),
		Metrics:        handlers.NewMetricsHandler(metricsService),
		Orgs:           handlers.NewOrgsHandler(orgRepo, metricsService),
		Budget:         handlers.NewBudgetHandler(budgetService),
		Auth:           handlers.NewAuthHandler(authService),
		Admin:          handlers.NewAdminHandler(issueService),
		Webhooks:       handlers.NewWebhooksHandler(issueService, logger),
		AuthMiddleware: authMiddleware,
		RateLimiter:    httptransport.NewRateLimiter(redis, cfg.RateLimit, logger),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
