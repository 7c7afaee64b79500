package controller

import (
	"context"
	"strings"

	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/handlers"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/state"
	"github.com/Freeeeeet/tutornearby_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	authService *service.AuthService,
	plannerService *service.PlannerService,
	durationHours float64,
	logger *zap.Logger,
) *BotController {
	// Формы создания сессий в памяти, по одной на пользователя
	stateManager := state.NewManager()

	callbackHandler := callbacks.NewHandler(
		userService,
		authService,
		plannerService,
		stateManager,
		durationHours,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        handlers.NewHandlers(callbackHandler.Handler),
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/login", bot.MatchTypePrefix, c.handlers.HandleLogin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypeExact, c.handlers.HandleLogout)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/newsession", bot.MatchTypeExact, c.handlers.HandleNewSession)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/sessions", bot.MatchTypeExact, c.handlers.HandleSessions)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Текст без команды (заметки к сессии); порядок проверки обработчиков не гарантирован
	c.bot.RegisterHandlerMatchFunc(isPlainText, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

func isPlainText(update *models.Update) bool {
	return update.Message != nil && update.Message.Text != "" && !strings.HasPrefix(update.Message.Text, "/")
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Start"},
		{Command: "newsession", Description: "📝 Schedule a session"},
		{Command: "sessions", Description: "🗓 This week's sessions"},
		{Command: "login", Description: "🔑 Sign in to TutorNearby"},
		{Command: "logout", Description: "🚪 Sign out"},
		{Command: "cancel", Description: "❌ Close the session form"},
		{Command: "help", Description: "❓ Help"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
