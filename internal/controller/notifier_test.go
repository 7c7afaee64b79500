package controller

import (
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatChatMessage(t *testing.T) {
	conv := model.Conversation{ID: 7, StudentID: 42, CounterpartName: "Ann <Lee>"}
	msg := model.ChatMessage{
		ID:        3,
		Body:      "Can we move to 5 & 6?",
		CreatedAt: time.Date(2024, 12, 27, 13, 5, 0, 0, time.UTC),
	}

	text := FormatChatMessage(conv, msg)
	assert.Contains(t, text, "Ann &lt;Lee&gt;")
	assert.Contains(t, text, "5 &amp; 6")
	assert.Contains(t, text, "27 Dec 2024 13:05 UTC")
}

func TestFormatChatMessage_FallbackNameAndTruncate(t *testing.T) {
	conv := model.Conversation{ID: 7, StudentID: 42}
	msg := model.ChatMessage{ID: 3, Body: strings.Repeat("a", maxMessagePreview+10)}

	text := FormatChatMessage(conv, msg)
	assert.Contains(t, text, "Student #42")
	assert.True(t, strings.HasSuffix(text, "…"))
	assert.NotContains(t, text, "<i>")
}

func TestIsPlainText(t *testing.T) {
	assert.True(t, isPlainText(&models.Update{Message: &models.Message{Text: "bring the workbook"}}))
	assert.False(t, isPlainText(&models.Update{Message: &models.Message{Text: "/start"}}))
	assert.False(t, isPlainText(&models.Update{Message: &models.Message{}}))
	assert.False(t, isPlainText(&models.Update{}))
}
