package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dmarkhas/tasklane-server/internal/api/http/router"
	"github.com/dmarkhas/tasklane-server/internal/calendar"
	"github.com/dmarkhas/tasklane-server/internal/config"
	"github.com/dmarkhas/tasklane-server/internal/logger"
	"github.com/dmarkhas/tasklane-server/internal/mailer"
	"github.com/dmarkhas/tasklane-server/internal/queue"
	"github.com/dmarkhas/tasklane-server/internal/repository/postgres"
	"github.com/dmarkhas/tasklane-server/internal/service"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	linkRepo := postgres.NewLoginLinkRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	taskRepo := postgres.NewTaskRepository(db)
	listRepo := postgres.NewListRepository(db)

	notifier := mailer.NewSMTP(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.From, logger)
	publisher := queue.NewPublisher(cfg.AMQP.URL, logger)

	authService := service.NewAuth(
		userRepo, linkRepo, sessionRepo, notifier,
		cfg.Auth.BaseURL, cfg.Auth.AllowedEmails, cfg.Auth.OperatorEmail(),
		logger,
	)
	taskService := service.NewTask(taskRepo, publisher, logger)
	listService := service.NewList(listRepo, logger)

	googleCalendar, err := calendar.NewGoogle(ctx, cfg.Calendar, logger)
	if err != nil {
		logger.Fatal("failed to create calendar client", "error", err)
	}
	consumer := queue.NewConsumer(cfg.AMQP.URL, googleCalendar, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		consumer.Run(ctx)
	}()

	rdb := newRedisClient(ctx, cfg.Redis, logger)

	e := router.New(authService, taskService, listService, rdb, cfg, logger).Register()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting server on", "port", cfg.HTTP.Port,
			"version", buildVersion, "build_date", buildDate)
		if err := e.Start(":" + cfg.HTTP.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err)
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// newRedisClient connects the rate limiter backend; a missing or
// unreachable Redis disables rate limiting rather than failing startup.
func newRedisClient(ctx context.Context, cfg config.Redis, logger *logger.Logger) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("redis unreachable, rate limiting disabled", "error", err)
		return nil
	}
	return client
}
