package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/planner"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("telegram_id", callback.From.ID))

	switch {
	case data == common.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Форма новой сессии =====
	case strings.HasPrefix(data, common.ToggleStudent):
		planner.HandleToggleStudent(ctx, b, callback, h)
	case data == common.StudentsDone:
		planner.HandleStudentsDone(ctx, b, callback, h)
	case strings.HasPrefix(data, common.SelectSubject):
		planner.HandleSelectSubject(ctx, b, callback, h)
	case strings.HasPrefix(data, common.SelectLevel):
		planner.HandleSelectLevel(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ShowMonth):
		planner.HandleShowMonth(ctx, b, callback, h)
	case strings.HasPrefix(data, common.SelectDay):
		planner.HandleSelectDay(ctx, b, callback, h)
	case strings.HasPrefix(data, common.SetDuration):
		planner.HandleSetDuration(ctx, b, callback, h)
	case strings.HasPrefix(data, common.SelectTime):
		planner.HandleSelectTime(ctx, b, callback, h)
	case data == common.SkipNotes:
		planner.HandleSkipNotes(ctx, b, callback, h)
	case data == common.Confirm:
		planner.HandleConfirm(ctx, b, callback, h)
	case strings.HasPrefix(data, common.Back):
		planner.HandleBack(ctx, b, callback, h)
	case data == common.CancelForm:
		planner.HandleCancelForm(ctx, b, callback, h)
	case data == common.RefreshAvailability:
		planner.HandleRefreshAvailability(ctx, b, callback, h)

	// ===== Неделя сессий =====
	case strings.HasPrefix(data, common.ViewWeek):
		planner.HandleViewWeek(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback data",
			zap.String("data", data),
			zap.Int64("telegram_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "")
	}
}
