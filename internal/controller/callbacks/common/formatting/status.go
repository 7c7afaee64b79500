package formatting

import "github.com/Freeeeeet/tutornearby_bot/internal/model"

// SessionStatusDisplay представляет отображение статуса сессии
type SessionStatusDisplay struct {
	Emoji string
	Text  string
}

// GetSessionStatusDisplay возвращает emoji и текст для статуса сессии
func GetSessionStatusDisplay(status model.SessionStatus) SessionStatusDisplay {
	displays := map[model.SessionStatus]SessionStatusDisplay{
		model.SessionStatusPending:    {"⏳", "Pending"},
		model.SessionStatusConfirmed:  {"✅", "Confirmed"},
		model.SessionStatusInProgress: {"▶️", "In progress"},
		model.SessionStatusCompleted:  {"✔️", "Completed"},
		model.SessionStatusCancelled:  {"❌", "Cancelled"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return SessionStatusDisplay{"❓", "Unknown"}
}
