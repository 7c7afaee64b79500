package model

import "time"

// AuthSession токены TutorNearby, привязанные к Telegram пользователю
type AuthSession struct {
	TelegramID   int64      `json:"telegram_id"`
	TutorID      int64      `json:"tutor_id"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresAt    *time.Time `json:"expires_at"` // nil = срок неизвестен
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Expired проверяет истёк ли access token
func (s *AuthSession) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}
