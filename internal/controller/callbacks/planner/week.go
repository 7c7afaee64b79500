package planner

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/Freeeeeet/tutornearby_bot/internal/tutornearby"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Telegram ограничивает подпись к фото
const maxCaptionLength = 1024

// SendWeek отправляет картинку недели с подписью-списком сессий
func SendWeek(ctx context.Context, b *bot.Bot, chatID int64, auth tutornearby.Auth, tutorID int64, weekStart model.Date, h *callbacktypes.Handler) error {
	weekStart = common.WeekStart(weekStart)

	sessions, err := h.PlannerService.WeekSessions(ctx, auth, tutorID, weekStart)
	if err != nil {
		return err
	}

	tutor, err := h.PlannerService.TutorProfile(ctx, auth, tutorID)
	if err != nil {
		if tutornearby.IsUnauthorized(err) {
			return err
		}
		h.Logger.Warn("Failed to load tutor profile for week view", zap.Int64("tutor_id", tutorID), zap.Error(err))
		tutor = nil
	}

	names := make(map[int64]string)
	students, err := h.PlannerService.Students(ctx, auth, tutorID)
	if err != nil {
		if tutornearby.IsUnauthorized(err) {
			return err
		}
		h.Logger.Warn("Failed to load students for week view", zap.Int64("tutor_id", tutorID), zap.Error(err))
	}
	for _, s := range students {
		names[s.ID] = s.DisplayName()
	}

	screen := common.BuildWeekScreen(sessions, tutor, weekStart)
	caption := screen.Text
	if len(caption) > maxCaptionLength {
		caption = fmt.Sprintf("<b>🗓 Week of %s</b>\n\nTotal: %s",
			weekStart.Format("02 Jan 2006"), formatting.PluralizeSessions(len(sessions)))
	}

	image, err := common.GenerateWeekImage(common.WeekImage{
		WeekStart:    weekStart,
		Sessions:     sessions,
		Tutor:        tutor,
		StudentNames: names,
		Now:          time.Now(),
	})
	if err != nil {
		h.Logger.Error("Failed to render week image, sending text", zap.Error(err))
		_, err = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        screen.Text,
			ParseMode:   models.ParseModeHTML,
			ReplyMarkup: screen.Keyboard,
		})
		return err
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:      chatID,
		Photo:       &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(image)},
		Caption:     caption,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: screen.Keyboard,
	})
	if err != nil {
		return fmt.Errorf("send week image: %w", err)
	}

	if caption != screen.Text {
		_, err = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      screen.Text,
			ParseMode: models.ParseModeHTML,
		})
	}
	return err
}

// HandleViewWeek листает неделю: новое фото вместо старого
func HandleViewWeek(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithSession(ctx, b, callback, h, func(hc *common.HandlerContext) {
		arg, err := common.ParseArg(callback.Data, common.ViewWeek)
		if err != nil {
			common.HandleError(hc, err, "view_week")
			return
		}
		weekStart, err := model.ParseDate(arg)
		if err != nil {
			common.HandleError(hc, common.ErrInvalidFormat, "view_week")
			return
		}
		if hc.Message == nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrNoMessage))
			return
		}

		if err := SendWeek(ctx, b, hc.ChatID, hc.Auth, hc.Session.TutorID, weekStart, h); err != nil {
			common.HandleError(hc, err, "view_week")
			return
		}
		hc.Answer("")

		_, err = b.DeleteMessage(ctx, &bot.DeleteMessageParams{
			ChatID:    hc.ChatID,
			MessageID: hc.Message.ID,
		})
		if err != nil {
			h.Logger.Debug("Failed to delete previous week message", zap.Error(err))
		}
	})
}
