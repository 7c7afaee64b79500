package model

import (
	"strings"
	"time"
)

// DayAvailability запись недельного шаблона для одного дня
type DayAvailability struct {
	Available bool   `json:"available"`
	Start     string `json:"start"` // HH:mm
	End       string `json:"end"`   // HH:mm
}

// BlackoutDate диапазон дат, в который занятия не назначаются
type BlackoutDate struct {
	StartDate Date  `json:"start_date"`
	EndDate   Date  `json:"end_date"`
	IsActive  *bool `json:"is_active,omitempty"` // nil считается активным
}

// Active возвращает false только при явном is_active=false
func (b BlackoutDate) Active() bool {
	return b.IsActive == nil || *b.IsActive
}

// Covers проверяет попадание даты в диапазон (обе границы включительно)
func (b BlackoutDate) Covers(d Date) bool {
	return !d.Before(b.StartDate) && !d.After(b.EndDate)
}

// AvailabilitySettings настройки доступности репетитора
type AvailabilitySettings struct {
	TutorID            int64                      `json:"tutor_id"`
	Weekly             map[string]DayAvailability `json:"weekly_schedule"`
	BlackoutDates      []BlackoutDate             `json:"blackout_dates"`
	MaximumAdvanceDays *int                       `json:"maximum_advance_days,omitempty"`
}

// Day возвращает запись шаблона для дня недели
func (s *AvailabilitySettings) Day(weekday time.Weekday) (DayAvailability, bool) {
	if s == nil || s.Weekly == nil {
		return DayAvailability{}, false
	}
	day, ok := s.Weekly[strings.ToLower(weekday.String())]
	return day, ok
}
