package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutornearby_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatCursorRepository запоминает последнее пересланное сообщение диалога
type ChatCursorRepository struct {
	*base.Repository
}

func NewChatCursorRepository(pool *pgxpool.Pool) *ChatCursorRepository {
	return &ChatCursorRepository{Repository: base.NewRepository(pool)}
}

// Get возвращает id последнего сообщения и признак, что курсор уже есть
func (r *ChatCursorRepository) Get(ctx context.Context, telegramID, conversationID int64) (int64, bool, error) {
	query := `
		SELECT last_message_id
		FROM chat_cursors
		WHERE telegram_id = $1 AND conversation_id = $2
	`

	var lastID int64
	err := r.QueryRow(ctx, query, telegramID, conversationID).Scan(&lastID)
	if err != nil {
		if base.IsNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get chat cursor: %w", err)
	}
	return lastID, true, nil
}

// Advance сдвигает курсор вперёд, но никогда назад
func (r *ChatCursorRepository) Advance(ctx context.Context, telegramID, conversationID, messageID int64) error {
	query := `
		INSERT INTO chat_cursors (telegram_id, conversation_id, last_message_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (telegram_id, conversation_id) DO UPDATE
		SET last_message_id = GREATEST(chat_cursors.last_message_id, EXCLUDED.last_message_id),
		    updated_at = NOW()
	`

	if _, err := r.ExecAffected(ctx, query, telegramID, conversationID, messageID); err != nil {
		return fmt.Errorf("advance chat cursor: %w", err)
	}
	return nil
}

// DeleteByTelegramID убирает курсоры пользователя при выходе
func (r *ChatCursorRepository) DeleteByTelegramID(ctx context.Context, telegramID int64) error {
	if _, err := r.ExecAffected(ctx, `DELETE FROM chat_cursors WHERE telegram_id = $1`, telegramID); err != nil {
		return fmt.Errorf("delete chat cursors: %w", err)
	}
	return nil
}
