package common

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// ParseArg возвращает часть data после prefix
func ParseArg(data, prefix string) (string, error) {
	if !strings.HasPrefix(data, prefix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	arg := strings.TrimPrefix(data, prefix)
	if arg == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	return arg, nil
}

// ParseIDArg извлекает ID из callback data
// Например: "ns_student:123" -> 123
func ParseIDArg(data, prefix string) (int64, error) {
	arg, err := ParseArg(data, prefix)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	return id, nil
}

// ParseTimeArg "1300" -> "13:00"
func ParseTimeArg(data string) (string, error) {
	arg, err := ParseArg(data, SelectTime)
	if err != nil {
		return "", err
	}
	if len(arg) != 4 {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	if _, err := strconv.Atoi(arg); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, data)
	}
	return arg[:2] + ":" + arg[2:], nil
}

// TimeArg "13:00" -> "1300"
func TimeArg(hhmm string) string {
	return strings.Replace(hhmm, ":", "", 1)
}

// IsMessageNotModifiedError Telegram отвечает так на редактирование без изменений
func IsMessageNotModifiedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
