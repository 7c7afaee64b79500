package handlers

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/planner"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// MaxNotesLength совпадает с ограничением запроса создания сессии
const MaxNotesLength = 1000

// handleSessionNotes сохраняет заметки и перерисовывает форму на шаг подтверждения
func (h *Handlers) handleSessionNotes(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	notes := strings.TrimSpace(update.Message.Text)

	if utf8.RuneCountInString(notes) > MaxNotesLength {
		h.sendMessage(ctx, b, chatID, "❌ Notes are too long, keep them under 1000 characters.")
		return
	}

	d, err := h.stateManager.UpdateSnapshot(telegramID, func(d *state.Dialog) error {
		d.Selection.SetNotes(notes)
		d.State = state.StateNone
		return nil
	})
	if err != nil {
		h.sendMessage(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	if err := planner.RenderForm(ctx, b, d, common.BuildConfirmScreen(d)); err != nil {
		h.logger.Error("Failed to render session form after notes",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
		h.sendMessage(ctx, b, chatID, common.ErrorMessage(err))
	}
}
