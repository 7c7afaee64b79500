package planner

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/state"
	"github.com/Freeeeeet/tutornearby_bot/internal/scheduling"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Start открывает новую форму создания сессии в чате. Настройки доступности
// берутся из кэша, пока не истёк TTL или репетитор не нажал "Refresh availability".
func Start(ctx context.Context, b *bot.Bot, chatID, telegramID int64, h *callbacktypes.Handler) error {
	auth, session, err := h.AuthService.Auth(ctx, telegramID)
	if err != nil {
		return err
	}
	tutorID := session.TutorID

	students, err := h.PlannerService.Students(ctx, auth, tutorID)
	if err != nil {
		return err
	}

	tutor, err := h.PlannerService.TutorProfile(ctx, auth, tutorID)
	if err != nil {
		h.Logger.Warn("Failed to load tutor profile, showing ids",
			zap.Int64("tutor_id", tutorID),
			zap.Error(err))
		tutor = nil
	}

	availability, err := h.PlannerService.LoadAvailability(ctx, auth, tutorID)
	if err != nil {
		return err
	}

	d := &state.Dialog{
		Selection:    scheduling.NewSelection(tutorID, h.DurationHours, h.PlannerService.Today()),
		Tutor:        tutor,
		Students:     students,
		Availability: availability,
		ChatID:       chatID,
	}

	screen := common.BuildStudentsScreen(d)
	msg, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        screen.Text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: screen.Keyboard,
	})
	if err != nil {
		return fmt.Errorf("send session form: %w", err)
	}
	d.MessageID = msg.ID
	h.StateManager.Start(telegramID, d)

	h.Logger.Info("Session form opened",
		zap.Int64("telegram_id", telegramID),
		zap.Int64("tutor_id", tutorID),
		zap.String("draft_id", d.Selection.DraftID.String()),
		zap.Int("students", len(students)),
		zap.Bool("availability_loaded", availability != nil),
	)
	return nil
}

// RenderForm перерисовывает сообщение формы вне callback (после текстового ввода)
func RenderForm(ctx context.Context, b *bot.Bot, d *state.Dialog, screen common.Screen) error {
	params := &bot.EditMessageTextParams{
		ChatID:    d.ChatID,
		MessageID: d.MessageID,
		Text:      screen.Text,
		ParseMode: models.ParseModeHTML,
	}
	if screen.Keyboard != nil {
		params.ReplyMarkup = screen.Keyboard
	}
	_, err := b.EditMessageText(ctx, params)
	if common.IsMessageNotModifiedError(err) {
		return nil
	}
	return err
}
