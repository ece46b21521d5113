package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/app"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/catalog"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/config"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/controller"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/repository"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/service"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/tcdd"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, "migrations")
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	stations, err := catalog.LoadStations()
	if err != nil {
		logger.Fatal("Failed to load station catalog", zap.Error(err))
	}

	client := tcdd.NewClient(tcdd.Config{
		BaseURL:         cfg.TCDDBaseURL,
		AuthToken:       cfg.TCDDAuthToken,
		UnitID:          cfg.TCDDUnitID,
		MinRequestDelay: cfg.MinRequestDelay,
		MaxRequestDelay: cfg.MaxRequestDelay,
	}, logger)

	userRepo := repository.NewUserRepository(pool)
	savedRepo := repository.NewSavedSearchRepository(pool)

	userService := service.NewUserService(userRepo, logger)
	alarmService := service.NewAlarmService(savedRepo, logger)
	stationService := service.NewStationService(stations, logger)
	allocationService := service.NewAllocationService(client, logger)
	searchService := service.NewSearchService(client, allocationService, cfg.PollInterval, logger)

	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(
		botInstance,
		userService,
		searchService,
		allocationService,
		alarmService,
		stationService,
		logger,
	)

	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	logger.Sugar().Infow("Starting TCDD seat alarm bot",
		"environment", cfg.Environment,
		"poll_interval", cfg.PollInterval)

	if err := botController.Start(ctx); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	searchService.StopAll()
	logger.Info("Shutdown complete")
}
