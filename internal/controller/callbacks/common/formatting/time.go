package formatting

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
)

// FormatDateTime форматирует дату и время (UTC)
func FormatDateTime(t time.Time) string {
	return t.UTC().Format("Mon, 02 Jan 2006 15:04") + " UTC"
}

// FormatDate форматирует только дату
func FormatDate(d model.Date) string {
	return d.Format("Mon, 02 Jan 2006")
}

// FormatTimeRange форматирует диапазон времени
func FormatTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s-%s", start.UTC().Format("15:04"), end.UTC().Format("15:04"))
}

// FormatHours форматирует длительность в часах: 1 h, 1 h 30 min, 45 min
func FormatHours(hours float64) string {
	minutes := int(model.HoursToDuration(hours) / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("%d h", h)
	}
	return fmt.Sprintf("%d h %d min", h, m)
}

// GetWeekdayShort короткое название дня недели
func GetWeekdayShort(weekday time.Weekday) string {
	return weekday.String()[:2]
}

// GetMonthTitle название месяца с годом
func GetMonthTitle(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month.String(), year)
}
