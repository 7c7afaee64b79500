package model

import "time"

type SessionStatus string

const (
	SessionStatusPending    SessionStatus = "pending"     // Ожидает подтверждения
	SessionStatusConfirmed  SessionStatus = "confirmed"   // Подтверждено
	SessionStatusInProgress SessionStatus = "in_progress" // Идёт сейчас
	SessionStatusCompleted  SessionStatus = "completed"   // Завершено
	SessionStatusCancelled  SessionStatus = "cancelled"   // Отменено
)

// IsBlocking занимает ли сессия своё время для новых записей
func (s SessionStatus) IsBlocking() bool {
	switch s {
	case SessionStatusPending, SessionStatusConfirmed, SessionStatusInProgress:
		return true
	default:
		return false
	}
}

type Session struct {
	ID            int64         `json:"id"`
	TutorID       int64         `json:"tutor_id"`
	StudentIDs    []int64       `json:"student_ids"`
	Subject       int64         `json:"subject"`
	AcademicLevel int64         `json:"academic_level"`
	SessionDate   time.Time     `json:"session_date"`
	DurationHours float64       `json:"duration_hours"`
	Status        SessionStatus `json:"status"`
	HourlyRate    float64       `json:"hourly_rate"`
	Notes         string        `json:"notes"`
	PaymentStatus string        `json:"payment_status,omitempty"`
}

// Interval возвращает полуоткрытый интервал [start, end)
func (s *Session) Interval() (time.Time, time.Time) {
	start := s.SessionDate
	return start, start.Add(HoursToDuration(s.DurationHours))
}

// HoursToDuration переводит дробные часы в time.Duration
func HoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// CreateSessionRequest тело POST /sessions
type CreateSessionRequest struct {
	TutorID       int64     `json:"tutor_id" validate:"required,gt=0"`
	StudentIDs    []int64   `json:"student_ids" validate:"required,min=1,dive,gt=0"`
	Subject       int64     `json:"subject" validate:"required,gt=0"`
	AcademicLevel int64     `json:"academic_level" validate:"required,gt=0"`
	SessionDate   time.Time `json:"session_date" validate:"required"`
	DurationHours float64   `json:"duration_hours" validate:"required,gt=0,lte=8"`
	HourlyRate    float64   `json:"hourly_rate" validate:"gte=0"`
	Notes         string    `json:"notes" validate:"max=1000"`
}
