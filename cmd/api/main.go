package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	metrics := observability.NewMetrics()
	hub := events.NewHub(cfg.Broadcast.SubscriberBuffer, logger, metrics)

	var publisher events.Publisher = hub
	var redisCheck handlers.Pinger
	if cfg.Broadcast.UseRedis {
		rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer rdb.Close()
		redisCheck = rdb
		publisher = events.NewRedisPublisher(rdb.Client, cfg.Broadcast.Channel, logger, metrics)
		worker.Start(ctx, worker.NewRelayWorker(rdb.Client, cfg.Broadcast.Channel, hub, logger))
		logger.Info("ticket updates relayed through redis", zap.String("channel", cfg.Broadcast.Channel))
	}

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	workLogRepo := repository.NewWorkLogRepository(pool)

	var transitions service.TransitionPolicy = service.AllowAnyTransition
	if cfg.Tickets.StrictTransitions {
		transitions = service.StrictTransitions
	}
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		CategoryRepo: categoryRepo,
		UserRepo:     userRepo,
		Strategy:     service.FirstEligibleStrategy{},
		Transitions:  transitions,
		Publisher:    publisher,
		Logger:       logger,
	})
	dashboardService := service.NewDashboardService(ticketRepo, nil)
	workLogService := service.NewWorkLogService(service.WorkLogDependencies{
		WorkLogRepo: workLogRepo,
		TicketRepo:  ticketRepo,
		UserRepo:    userRepo,
		Publisher:   publisher,
		Logger:      logger,
	})
	directoryService := service.NewDirectoryService(service.DirectoryDependencies{
		UserRepo:     userRepo,
		CategoryRepo: categoryRepo,
		BcryptCost:   cfg.Auth.BcryptCost,
		Logger:       logger,
	})
	authService := service.NewAuthService(cfg.Auth, userRepo, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	eventsHandler := handlers.NewEventsHandler(hub, cfg.Broadcast.KeepAlive(), logger)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisCheck),
		Metrics:        handlers.NewMetricsHandler(metrics, hub, pg),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		WorkLogs:       handlers.NewWorkLogsHandler(workLogService),
		Directory:      handlers.NewDirectoryHandler(directoryService),
		Events:         eventsHandler,
		AuthMiddleware: authMiddleware.Handle,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	eventsHandler.Close()
	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
