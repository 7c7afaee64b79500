package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/app"
	"github.com/Freeeeeet/tutornearby_bot/internal/cache"
	"github.com/Freeeeeet/tutornearby_bot/internal/config"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller"
	"github.com/Freeeeeet/tutornearby_bot/internal/repository"
	"github.com/Freeeeeet/tutornearby_bot/internal/service"
	"github.com/Freeeeeet/tutornearby_bot/internal/tutornearby"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting TutorNearby bot",
		zap.String("environment", cfg.Environment),
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.Bool("redis_enabled", cfg.RedisAddr != ""),
		zap.Bool("tracing_enabled", cfg.OtelEnabled))

	shutdownTracing, err := app.SetupTracing(ctx, app.TracingConfig{
		Enabled:      cfg.OtelEnabled,
		OTLPEndpoint: cfg.OtelEndpoint,
		SampleRatio:  cfg.OtelSamplingRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	// Postgres
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	logger.Info("Connected to database")

	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		migrator.Close()
		return err
	}
	migrator.Close()

	// Redis (необязателен)
	rdb, err := cache.Connect(ctx, cfg.RedisAddr)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		logger.Info("Connected to redis", zap.String("addr", cfg.RedisAddr))
	}
	availabilityCache := cache.NewAvailabilityCache(rdb, cfg.AvailabilityCacheTTL)

	api, err := tutornearby.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger)
	if err != nil {
		return err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(pool)
	sessionRepo := repository.NewAuthSessionRepository(pool)
	cursorRepo := repository.NewChatCursorRepository(pool)

	// Сервисы
	userService := service.NewUserService(userRepo, logger)
	authService := service.NewAuthService(sessionRepo, cursorRepo, api, logger)
	plannerService := service.NewPlannerService(api, availabilityCache, logger)

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(
		b,
		userService,
		authService,
		plannerService,
		cfg.SessionDurationHours,
		logger,
	)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// меню команд не критично
		logger.Warn("Bot started without commands menu", zap.Error(err))
	}

	chatService := service.NewChatService(api, sessionRepo, cursorRepo, authService, controller.NewChatNotifier(b), logger)
	scheduler := app.NewScheduler(chatService, cfg.ChatPollInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// Блокируется до сигнала
	if err := botController.Start(ctx); err != nil {
		return err
	}

	logger.Info("Bot stopped")
	return nil
}
