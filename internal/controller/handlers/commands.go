package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/planner"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/state"
	"github.com/Freeeeeet/tutornearby_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 <b>Commands</b>\n\n" +
	"/login ACCESS_TOKEN [REFRESH_TOKEN] - Sign in with your TutorNearby tokens\n" +
	"/logout - Sign out\n" +
	"/newsession - Schedule a session with your students\n" +
	"/sessions - This week's sessions\n" +
	"/cancel - Close the open session form\n" +
	"/help - Show this help\n\n" +
	"New student messages from TutorNearby chats are forwarded here while you are signed in."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	user := update.Message.From

	registeredUser, err := h.userService.RegisterUser(
		ctx,
		user.ID,
		user.Username,
		user.FirstName,
		user.LastName,
		user.LanguageCode,
	)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Registration failed. Please try again later.")
		return
	}

	status := "🔒 You are not signed in yet. Use /login to connect your TutorNearby tutor account."
	if session, err := h.authService.Current(ctx, user.ID); err == nil {
		status = fmt.Sprintf("✅ Signed in as tutor #%d.", session.TutorID)
	} else if !errors.Is(err, service.ErrNotLoggedIn) {
		h.logger.Error("Failed to load auth session", zap.Int64("telegram_id", user.ID), zap.Error(err))
	}

	welcomeText := fmt.Sprintf(
		"👋 Hi, %s!\n\nThis is the TutorNearby scheduling bot.\n\n%s\n\n%s",
		html.EscapeString(registeredUser.FirstName),
		status,
		helpText,
	)
	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleLogin обрабатывает /login ACCESS_TOKEN [REFRESH_TOKEN].
// Сообщение с токенами удаляется из чата.
func (h *Handlers) HandleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID

	fields := strings.Fields(msg.Text)
	if len(fields) < 2 || len(fields) > 3 {
		h.sendMessage(ctx, b, chatID, "Usage: /login ACCESS_TOKEN [REFRESH_TOKEN]")
		return
	}

	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: msg.ID}); err != nil {
		h.logger.Warn("Failed to delete login message", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	// auth_sessions ссылается на users
	from := msg.From
	if _, err := h.userService.RegisterUser(ctx, from.ID, from.Username, from.FirstName, from.LastName, from.LanguageCode); err != nil {
		h.logger.Error("Failed to register user", zap.Int64("telegram_id", from.ID), zap.Error(err))
		h.sendMessage(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	var refreshToken string
	if len(fields) == 3 {
		refreshToken = fields[2]
	}

	session, err := h.authService.Login(ctx, msg.From.ID, fields[1], refreshToken)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidToken) {
			h.logger.Error("Failed to login", zap.Int64("telegram_id", msg.From.ID), zap.Error(err))
		}
		h.sendMessage(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	text := fmt.Sprintf("✅ Signed in as tutor #%d.\n\nSchedule a session with /newsession", session.TutorID)
	if refreshToken == "" {
		text += "\n\n⚠️ Without a refresh token you will need to /login again when the access token expires."
	}
	h.sendMessage(ctx, b, chatID, text)
}

// HandleLogout обрабатывает /logout
func (h *Handlers) HandleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	telegramID := update.Message.From.ID

	h.stateManager.ClearState(telegramID)
	err := h.authService.Logout(ctx, telegramID)
	switch {
	case err == nil:
		h.sendMessage(ctx, b, update.Message.Chat.ID, "👋 Signed out of TutorNearby.")
	case errors.Is(err, service.ErrNotLoggedIn):
		h.sendMessage(ctx, b, update.Message.Chat.ID, "You are not signed in.")
	default:
		h.logger.Error("Failed to logout", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendMessage(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
	}
}

// HandleNewSession открывает форму создания сессии. Открытая форма заменяется новой.
func (h *Handlers) HandleNewSession(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, _, ok := h.requireSession(ctx, b, update); !ok {
		return
	}

	if err := planner.Start(ctx, b, update.Message.Chat.ID, update.Message.From.ID, h.flow); err != nil {
		h.handleAPIError(ctx, b, update, err, "new_session")
	}
}

// HandleSessions показывает сессии текущей недели
func (h *Handlers) HandleSessions(ctx context.Context, b *bot.Bot, update *models.Update) {
	auth, session, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	err := planner.SendWeek(ctx, b, update.Message.Chat.ID, auth, session.TutorID, h.plannerService.Today(), h.flow)
	if err != nil {
		h.handleAPIError(ctx, b, update, err, "week_sessions")
	}
}

// HandleCancel обрабатывает команду /cancel - закрывает открытую форму
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !h.stateManager.ClearState(update.Message.From.ID) {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Nothing to cancel.")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Session form closed.\n\nUse /help to see the available commands.")
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются другими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	switch h.stateManager.GetState(telegramID) {
	case state.StateSessionNotes:
		h.handleSessionNotes(ctx, b, update)
	default:
		h.logger.Debug("No active state, ignoring message", zap.Int64("telegram_id", telegramID))
	}
}
