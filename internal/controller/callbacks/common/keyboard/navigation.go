package keyboard

import "github.com/go-telegram/bot/models"

// Noop callback кнопок, которые только подтверждают нажатие
const Noop = "noop"

// BackButton создаёт кнопку "Back"
func BackButton(callbackData string) models.InlineKeyboardButton {
	return Button("⬅️ Back", callbackData)
}

// CancelButton создаёт кнопку "Cancel"
func CancelButton(callbackData string) models.InlineKeyboardButton {
	return Button("❌ Cancel", callbackData)
}

// NextButton создаёт кнопку "Next"
func NextButton(callbackData string) models.InlineKeyboardButton {
	return Button("Next ➡️", callbackData)
}

// BackCancelRow ряд "Back" + "Cancel"
func BackCancelRow(back, cancel string) []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{BackButton(back), CancelButton(cancel)}
}

// AddBackCancel добавляет ряд "Back" + "Cancel"
func (b *Builder) AddBackCancel(back, cancel string) *Builder {
	return b.Row(BackCancelRow(back, cancel)...)
}
