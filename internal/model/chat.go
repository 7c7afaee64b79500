package model

import "time"

type Conversation struct {
	ID              int64  `json:"id"`
	StudentID       int64  `json:"student_id"`
	TutorID         int64  `json:"tutor_id"`
	CounterpartName string `json:"counterpart_name"`
}

type ChatMessage struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	SenderID       int64     `json:"sender_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}
