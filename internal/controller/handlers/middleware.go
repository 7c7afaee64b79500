package handlers

import (
	"context"
	"errors"

	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/Freeeeeet/tutornearby_bot/internal/service"
	"github.com/Freeeeeet/tutornearby_bot/internal/tutornearby"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireSession проверяет что пользователь вошёл в TutorNearby.
// Возвращает Auth, сессию и true если OK.
func (h *Handlers) requireSession(ctx context.Context, b *bot.Bot, update *models.Update) (tutornearby.Auth, *model.AuthSession, bool) {
	if update.Message == nil || update.Message.From == nil {
		return tutornearby.Auth{}, nil, false
	}

	telegramID := update.Message.From.ID
	auth, session, err := h.authService.Auth(ctx, telegramID)
	if err != nil {
		if !errors.Is(err, service.ErrNotLoggedIn) {
			h.logger.Error("Failed to load auth session", zap.Int64("telegram_id", telegramID), zap.Error(err))
		}
		h.sendMessage(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
		return tutornearby.Auth{}, nil, false
	}

	return auth, session, true
}

// handleAPIError отвечает на ошибку API. Отклонённый токен завершает сессию.
func (h *Handlers) handleAPIError(ctx context.Context, b *bot.Bot, update *models.Update, err error, operation string) {
	telegramID := update.Message.From.ID
	if tutornearby.IsUnauthorized(err) {
		h.logger.Warn("TutorNearby session expired",
			zap.String("operation", operation),
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
		common.ExpireSession(ctx, h.flow, telegramID)
		h.sendMessage(ctx, b, update.Message.Chat.ID, "🔒 Your TutorNearby session has expired. Use /login to sign in again.")
		return
	}

	h.logger.Error("Command failed",
		zap.String("operation", operation),
		zap.Int64("telegram_id", telegramID),
		zap.Error(err))
	h.sendMessage(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err))
}

// sendMessage отправляет HTML сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
