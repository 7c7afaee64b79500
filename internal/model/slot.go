package model

import "time"

// Slot кандидат времени начала занятия, генерируется сервером
type Slot struct {
	Start time.Time `json:"start"`
}
