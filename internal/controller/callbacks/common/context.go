package common

import (
	"context"

	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/state"
	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/Freeeeeet/tutornearby_bot/internal/tutornearby"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandlerContext содержит общие данные для обработки callback
type HandlerContext struct {
	Ctx        context.Context
	Bot        *bot.Bot
	Callback   *models.CallbackQuery
	Handler    *callbacktypes.Handler
	Message    *models.Message
	TelegramID int64
	ChatID     int64

	Auth    tutornearby.Auth
	Session *model.AuthSession

	// Telegram принимает только первый ответ на callback
	answered bool
}

// NewHandlerContext создаёт новый контекст обработчика
func NewHandlerContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
) *HandlerContext {
	msg := GetMessageFromCallback(callback)
	var chatID int64
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:        ctx,
		Bot:        b,
		Callback:   callback,
		Handler:    h,
		Message:    msg,
		TelegramID: callback.From.ID,
		ChatID:     chatID,
	}
}

// LoadSession загружает токены TutorNearby в контекст
func (hc *HandlerContext) LoadSession() error {
	auth, session, err := hc.Handler.AuthService.Auth(hc.Ctx, hc.TelegramID)
	if err != nil {
		return err
	}
	hc.Auth = auth
	hc.Session = session
	return nil
}

// Dialog копия открытой формы
func (hc *HandlerContext) Dialog() (*state.Dialog, error) {
	d, ok := hc.Handler.StateManager.Get(hc.TelegramID)
	if !ok {
		return nil, state.ErrNoDialog
	}
	return d, nil
}

// Update меняет форму и возвращает её копию
func (hc *HandlerContext) Update(fn func(d *state.Dialog) error) (*state.Dialog, error) {
	return hc.Handler.StateManager.UpdateSnapshot(hc.TelegramID, fn)
}

// Answer отвечает на callback query. Повторные ответы не отправляются
func (hc *HandlerContext) Answer(text string) {
	if hc.answered {
		return
	}
	hc.answered = true
	AnswerCallback(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// AnswerAlert отвечает на callback query с alert
func (hc *HandlerContext) AnswerAlert(text string) {
	if hc.answered {
		hc.Handler.Logger.Debug("Callback already answered, alert dropped", zap.String("text", text))
		return
	}
	hc.answered = true
	AnswerCallbackAlert(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// EditMessage редактирует сообщение
func (hc *HandlerContext) EditMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	params := &bot.EditMessageTextParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	_, err := hc.Bot.EditMessageText(hc.Ctx, params)

	// "message is not modified" не ошибка
	if IsMessageNotModifiedError(err) {
		return nil
	}

	return err
}

// Render перерисовывает форму
func (hc *HandlerContext) Render(screen Screen) error {
	return hc.EditMessage(screen.Text, screen.Keyboard)
}

// SendMessage отправляет новое сообщение
func (hc *HandlerContext) SendMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:    hc.ChatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	_, err := hc.Bot.SendMessage(hc.Ctx, params)
	return err
}

// ClearState закрывает форму
func (hc *HandlerContext) ClearState() {
	hc.Handler.StateManager.ClearState(hc.TelegramID)
}
