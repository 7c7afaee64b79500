package keyboard

import (
	"fmt"
	"time"

	"github.com/go-telegram/bot/models"
)

// MonthPagination ряд ◀️ Month Year ▶️. prev/next пустые, если переход недоступен
func MonthPagination(prefix string, year int, month time.Month, canPrev, canNext bool) []models.InlineKeyboardButton {
	cur := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	prev := cur.AddDate(0, -1, 0)
	next := cur.AddDate(0, 1, 0)

	row := make([]models.InlineKeyboardButton, 0, 3)
	if canPrev {
		row = append(row, Button("◀️", prefix+prev.Format("2006-01")))
	} else {
		row = append(row, Inert(" "))
	}
	row = append(row, Inert(fmt.Sprintf("📅 %s %d", month.String(), year)))
	if canNext {
		row = append(row, Button("▶️", prefix+next.Format("2006-01")))
	} else {
		row = append(row, Inert(" "))
	}
	return row
}

// WeekPagination ряд перехода по неделям, weekStart в формате YYYY-MM-DD
func WeekPagination(prefix string, weekStart time.Time) []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{
		Button("◀️ Previous week", prefix+weekStart.AddDate(0, 0, -7).Format("2006-01-02")),
		Button("Next week ▶️", prefix+weekStart.AddDate(0, 0, 7).Format("2006-01-02")),
	}
}
