package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/Freeeeeet/tutornearby_bot/internal/tutornearby"
	"go.uber.org/zap"
)

// ChatAPI методы чата TutorNearby API
type ChatAPI interface {
	ListConversations(ctx context.Context, auth tutornearby.Auth, userID int64) ([]model.Conversation, error)
	ListMessages(ctx context.Context, auth tutornearby.Auth, conversationID, afterID int64) ([]model.ChatMessage, error)
}

// Notifier доставляет новое сообщение пользователю бота
type Notifier interface {
	NotifyMessage(ctx context.Context, telegramID int64, conv model.Conversation, msg model.ChatMessage) error
}

// ChatService опрашивает чаты репетиторов и пересылает новые сообщения в Telegram
type ChatService struct {
	api      ChatAPI
	sessions AuthSessionStore
	cursors  ChatCursorStore
	auth     *AuthService
	notifier Notifier
	logger   *zap.Logger
}

func NewChatService(api ChatAPI, sessions AuthSessionStore, cursors ChatCursorStore, auth *AuthService, notifier Notifier, logger *zap.Logger) *ChatService {
	return &ChatService{
		api:      api,
		sessions: sessions,
		cursors:  cursors,
		auth:     auth,
		notifier: notifier,
		logger:   logger,
	}
}

// Poll один проход по всем вошедшим пользователям
func (s *ChatService) Poll(ctx context.Context) error {
	sessions, err := s.sessions.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list auth sessions: %w", err)
	}

	delivered := 0
	for _, session := range sessions {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n, err := s.pollSession(ctx, session)
		if err != nil {
			s.logger.Warn("Chat poll failed",
				zap.Int64("telegram_id", session.TelegramID),
				zap.Error(err),
			)
			continue
		}
		delivered += n
	}

	if delivered > 0 {
		s.logger.Info("Chat messages delivered", zap.Int("count", delivered))
	}
	return nil
}

func (s *ChatService) pollSession(ctx context.Context, session *model.AuthSession) (int, error) {
	auth := s.auth.AuthFor(session)

	convs, err := s.api.ListConversations(ctx, auth, session.TutorID)
	if err != nil {
		return 0, fmt.Errorf("list conversations: %w", err)
	}

	delivered := 0
	for _, conv := range convs {
		n, err := s.pollConversation(ctx, auth, session, conv)
		if err != nil {
			if tutornearby.IsUnauthorized(err) {
				return delivered, err
			}
			s.logger.Warn("Conversation poll failed",
				zap.Int64("telegram_id", session.TelegramID),
				zap.Int64("conversation_id", conv.ID),
				zap.Error(err),
			)
			continue
		}
		delivered += n
	}
	return delivered, nil
}

// pollConversation при первом проходе только запоминает последнее сообщение,
// чтобы не пересылать всю историю
func (s *ChatService) pollConversation(ctx context.Context, auth tutornearby.Auth, session *model.AuthSession, conv model.Conversation) (int, error) {
	cursor, found, err := s.cursors.Get(ctx, session.TelegramID, conv.ID)
	if err != nil {
		return 0, err
	}

	msgs, err := s.api.ListMessages(ctx, auth, conv.ID, cursor)
	if err != nil {
		return 0, fmt.Errorf("list messages: %w", err)
	}
	if len(msgs) == 0 {
		if !found {
			return 0, s.cursors.Advance(ctx, session.TelegramID, conv.ID, 0)
		}
		return 0, nil
	}

	last := cursor
	delivered := 0
	for _, msg := range msgs {
		if msg.ID <= cursor {
			continue
		}
		if found && msg.SenderID != session.TutorID {
			if err := s.notifier.NotifyMessage(ctx, session.TelegramID, conv, msg); err != nil {
				// курсор двигаем только до последнего доставленного
				if last > cursor {
					if err := s.cursors.Advance(ctx, session.TelegramID, conv.ID, last); err != nil {
						s.logger.Warn("Failed to advance chat cursor",
							zap.Int64("telegram_id", session.TelegramID),
							zap.Int64("conversation_id", conv.ID),
							zap.Error(err),
						)
					}
				}
				return delivered, fmt.Errorf("notify message %d: %w", msg.ID, err)
			}
			delivered++
		}
		if msg.ID > last {
			last = msg.ID
		}
	}

	if last > cursor || !found {
		if err := s.cursors.Advance(ctx, session.TelegramID, conv.ID, last); err != nil {
			return delivered, err
		}
	}
	return delivered, nil
}
