package controller

import (
	"context"

	"github.com/Zerohidz/tcdd-alarm-bot/internal/controller/handlers"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/controller/state"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	searchService *service.SearchService,
	allocationService *service.AllocationService,
	alarmService *service.AlarmService,
	stationService *service.StationService,
	logger *zap.Logger,
) *BotController {
	stateManager := state.NewManager()
	countdowns := handlers.NewCountdownManager(allocationService, logger)

	cmdHandlers := handlers.NewHandlers(
		userService,
		searchService,
		allocationService,
		alarmService,
		stationService,
		stateManager,
		countdowns,
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		logger:   logger,
	}
}

// RegisterHandlers wires up all command, dialog and callback handlers.
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/search", bot.MatchTypeExact, c.handlers.HandleSearch)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stop", bot.MatchTypeExact, c.handlers.HandleStop)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/status", bot.MatchTypeExact, c.handlers.HandleStatus)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/release", bot.MatchTypeExact, c.handlers.HandleRelease)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/alarms", bot.MatchTypeExact, c.handlers.HandleAlarms)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Free text feeds the criteria dialog.
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Inline keyboard presses.
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands installs the bot command menu.
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "search", Description: "🔔 Set up a seat alarm"},
		{Command: "alarms", Description: "💾 Saved alarms"},
		{Command: "status", Description: "📊 Current search and hold"},
		{Command: "stop", Description: "⏹ Stop the running search"},
		{Command: "release", Description: "🪑 Release the held seat"},
		{Command: "help", Description: "❓ Help"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start runs the bot until the context is cancelled.
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
