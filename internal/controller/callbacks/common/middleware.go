package common

import (
	"context"
	"errors"

	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/tutornearby_bot/internal/service"
	"github.com/Freeeeeet/tutornearby_bot/internal/tutornearby"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// WithSession создаёт HandlerContext и загружает токены TutorNearby.
// При ошибке сам отвечает пользователю.
func WithSession(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	if err := hc.LoadSession(); err != nil {
		if !errors.Is(err, service.ErrNotLoggedIn) {
			h.Logger.Error("Failed to load auth session",
				zap.Int64("telegram_id", hc.TelegramID),
				zap.Error(err))
		}
		hc.AnswerAlert(ErrorMessage(err))
		return
	}

	handler(hc)
}

// HandleError логирует ошибку и отвечает пользователю. Если API отклонил
// токен даже после обновления, сессия удаляется и форма закрывается.
func HandleError(hc *HandlerContext, err error, operation string) {
	if tutornearby.IsUnauthorized(err) {
		hc.Handler.Logger.Warn("TutorNearby session expired",
			zap.String("operation", operation),
			zap.Int64("telegram_id", hc.TelegramID),
			zap.Error(err))
		ExpireSession(hc.Ctx, hc.Handler, hc.TelegramID)
		hc.AnswerAlert(ErrorMessage(err))
		_ = hc.EditMessage("🔒 Your TutorNearby session has expired. Use /login to sign in again.", nil)
		return
	}

	hc.Handler.Logger.Error("Operation failed",
		zap.String("operation", operation),
		zap.Int64("telegram_id", hc.TelegramID),
		zap.Error(err))
	hc.AnswerAlert(ErrorMessage(err))
}

// ExpireSession удаляет токены и открытую форму
func ExpireSession(ctx context.Context, h *callbacktypes.Handler, telegramID int64) {
	h.StateManager.ClearState(telegramID)
	if err := h.AuthService.Logout(ctx, telegramID); err != nil && !errors.Is(err, service.ErrNotLoggedIn) {
		h.Logger.Error("Failed to clear expired session",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
	}
}
