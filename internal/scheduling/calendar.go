// Package scheduling содержит чистую логику планировщика сессий:
// выбор дней в календаре, конфликты слотов и пересечение оплаченных предметов.
package scheduling

import (
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
)

// IsDaySelectable можно ли выбрать дату для новой сессии.
// Без настроек доступности разрешён любой не прошедший день.
func IsDaySelectable(date model.Date, settings *model.AvailabilitySettings, today model.Date) bool {
	if date.Before(today) {
		return false
	}
	if settings == nil {
		return true
	}

	for _, blackout := range settings.BlackoutDates {
		if blackout.Active() && blackout.Covers(date) {
			return false
		}
	}

	if settings.MaximumAdvanceDays != nil && date.After(today.AddDays(*settings.MaximumAdvanceDays)) {
		return false
	}

	if day, ok := settings.Day(date.Weekday()); ok && !day.Available {
		return false
	}

	return true
}

// DayCell ячейка месячного календаря
type DayCell struct {
	Date       model.Date
	InMonth    bool
	Selectable bool
}

// MonthGrid строит календарь месяца полными неделями с понедельника.
// Дни соседних месяцев никогда не выбираются.
func MonthGrid(year int, month time.Month, settings *model.AvailabilitySettings, today model.Date) []DayCell {
	first := model.NewDate(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
	last := first.AddDays(daysIn(year, month) - 1)

	start := first.AddDays(-mondayOffset(first.Weekday()))
	end := last.AddDays(6 - mondayOffset(last.Weekday()))

	cells := make([]DayCell, 0, 42)
	for d := start; !d.After(end); d = d.AddDays(1) {
		inMonth := d.Month() == first.Month()
		cells = append(cells, DayCell{
			Date:       d,
			InMonth:    inMonth,
			Selectable: inMonth && IsDaySelectable(d, settings, today),
		})
	}
	return cells
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// mondayOffset номер дня в неделе, начинающейся с понедельника (0..6)
func mondayOffset(w time.Weekday) int {
	return (int(w) + 6) % 7
}
