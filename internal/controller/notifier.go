package controller

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// maxMessagePreview обрезает длинные сообщения чата
const maxMessagePreview = 3500

// ChatNotifier пересылает сообщения чатов TutorNearby в личку репетитора
type ChatNotifier struct {
	bot *bot.Bot
}

func NewChatNotifier(b *bot.Bot) *ChatNotifier {
	return &ChatNotifier{bot: b}
}

// NotifyMessage отправляет одно сообщение чата. Для личного чата chat id совпадает с telegram id.
func (n *ChatNotifier) NotifyMessage(ctx context.Context, telegramID int64, conv model.Conversation, msg model.ChatMessage) error {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    telegramID,
		Text:      FormatChatMessage(conv, msg),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("notify message %d: %w", msg.ID, err)
	}
	return nil
}

// FormatChatMessage текст уведомления о новом сообщении
func FormatChatMessage(conv model.Conversation, msg model.ChatMessage) string {
	from := conv.CounterpartName
	if from == "" {
		from = fmt.Sprintf("Student #%d", conv.StudentID)
	}

	body := []rune(msg.Body)
	text := string(body)
	if len(body) > maxMessagePreview {
		text = string(body[:maxMessagePreview]) + "…"
	}

	out := fmt.Sprintf("💬 <b>%s</b>\n%s", html.EscapeString(from), html.EscapeString(text))
	if !msg.CreatedAt.IsZero() {
		out += "\n\n<i>" + formatting.FormatDateTime(msg.CreatedAt) + "</i>"
	}
	return out
}
