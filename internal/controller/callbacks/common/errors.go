package common

import (
	"errors"

	"github.com/Freeeeeet/tutornearby_bot/internal/controller/state"
	"github.com/Freeeeeet/tutornearby_bot/internal/scheduling"
	"github.com/Freeeeeet/tutornearby_bot/internal/service"
	"github.com/Freeeeeet/tutornearby_bot/internal/tutornearby"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrDayNotAllowed = errors.New("day is not available for booking")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var rejected *service.RejectedError
	switch {
	case errors.As(err, &rejected):
		if rejected.Message != "" {
			return "❌ TutorNearby rejected the session: " + rejected.Message
		}
		return "❌ TutorNearby rejected the session"
	case errors.Is(err, service.ErrNotLoggedIn), tutornearby.IsUnauthorized(err):
		return "🔒 You are not logged in to TutorNearby. Use /login ACCESS_TOKEN [REFRESH_TOKEN]"
	case errors.Is(err, service.ErrInvalidToken):
		return "❌ This does not look like a TutorNearby access token"
	case errors.Is(err, state.ErrSubmitInProgress):
		return "⏳ The session is already being created"
	case errors.Is(err, state.ErrNoDialog):
		return "⌛ This form is no longer active. Start again with /newsession"
	case errors.Is(err, scheduling.ErrNoStudents):
		return "👥 Select at least one student"
	case errors.Is(err, scheduling.ErrEmptyHiredIntersection):
		return "⚠️ The selected students have no hired subject and level in common"
	case errors.Is(err, scheduling.ErrNoSubject):
		return "📚 Select a subject"
	case errors.Is(err, scheduling.ErrNoLevel):
		return "🎓 Select an academic level"
	case errors.Is(err, scheduling.ErrNoDate):
		return "📅 Select a date"
	case errors.Is(err, scheduling.ErrNoTime):
		return "🕐 Select a time"
	case errors.Is(err, scheduling.ErrSlotConflict):
		return "⛔ This time overlaps an existing session"
	case errors.Is(err, scheduling.ErrSlotUnknown):
		return "🕐 This time is not offered for the selected day"
	case errors.Is(err, ErrDayNotAllowed):
		return "📅 This day is not available"
	case errors.Is(err, ErrNoMessage):
		return "❌ Failed to process the message"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Invalid data"
	case tutornearby.IsNotFound(err):
		return "❌ Not found on TutorNearby"
	default:
		return "❌ Something went wrong. Please try again later."
	}
}

// SuggestsProfile отказ сервера связан с предметами или уровнями репетитора
func SuggestsProfile(err error) bool {
	var rejected *service.RejectedError
	if !errors.As(err, &rejected) {
		return false
	}
	return containsFold(rejected.Message, "academic level") || containsFold(rejected.Message, "subject")
}
