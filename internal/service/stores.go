package service

import (
	"context"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
)

// Интерфейсы хранилищ; реализации в пакете repository

type UserStore interface {
	Upsert(ctx context.Context, user *model.User) error
}

type AuthSessionStore interface {
	Save(ctx context.Context, s *model.AuthSession) error
	Get(ctx context.Context, telegramID int64) (*model.AuthSession, error)
	ListAll(ctx context.Context) ([]*model.AuthSession, error)
	Delete(ctx context.Context, telegramID int64) (bool, error)
}

type ChatCursorStore interface {
	Get(ctx context.Context, telegramID, conversationID int64) (int64, bool, error)
	Advance(ctx context.Context, telegramID, conversationID, messageID int64) error
	DeleteByTelegramID(ctx context.Context, telegramID int64) error
}
