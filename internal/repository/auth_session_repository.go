package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/Freeeeeet/tutornearby_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuthSessionRepository хранит токены TutorNearby по Telegram ID
type AuthSessionRepository struct {
	*base.Repository
}

func NewAuthSessionRepository(pool *pgxpool.Pool) *AuthSessionRepository {
	return &AuthSessionRepository{Repository: base.NewRepository(pool)}
}

const authSessionColumns = `telegram_id, tutor_id, access_token, refresh_token, expires_at, created_at, updated_at`

// Save создаёт или заменяет сессию пользователя
func (r *AuthSessionRepository) Save(ctx context.Context, s *model.AuthSession) error {
	query := `
		INSERT INTO auth_sessions (telegram_id, tutor_id, access_token, refresh_token, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (telegram_id) DO UPDATE
		SET tutor_id = EXCLUDED.tutor_id,
		    access_token = EXCLUDED.access_token,
		    refresh_token = EXCLUDED.refresh_token,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(ctx, query,
		s.TelegramID,
		s.TutorID,
		s.AccessToken,
		s.RefreshToken,
		s.ExpiresAt,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("save auth session: %w", err)
	}
	return nil
}

// Get получает сессию; nil если пользователь не входил
func (r *AuthSessionRepository) Get(ctx context.Context, telegramID int64) (*model.AuthSession, error) {
	query := `SELECT ` + authSessionColumns + ` FROM auth_sessions WHERE telegram_id = $1`

	var s model.AuthSession
	err := r.QueryRow(ctx, query, telegramID).Scan(
		&s.TelegramID,
		&s.TutorID,
		&s.AccessToken,
		&s.RefreshToken,
		&s.ExpiresAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get auth session: %w", err)
	}
	return &s, nil
}

// ListAll все активные сессии (для фонового опроса чатов)
func (r *AuthSessionRepository) ListAll(ctx context.Context) ([]*model.AuthSession, error) {
	query := `SELECT ` + authSessionColumns + ` FROM auth_sessions ORDER BY telegram_id`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list auth sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.AuthSession
	for rows.Next() {
		var s model.AuthSession
		err := rows.Scan(
			&s.TelegramID,
			&s.TutorID,
			&s.AccessToken,
			&s.RefreshToken,
			&s.ExpiresAt,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan auth session: %w", err)
		}
		sessions = append(sessions, &s)
	}

	return sessions, rows.Err()
}

// Delete удаляет сессию (выход)
func (r *AuthSessionRepository) Delete(ctx context.Context, telegramID int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM auth_sessions WHERE telegram_id = $1`, telegramID)
	if err != nil {
		return false, fmt.Errorf("delete auth session: %w", err)
	}
	return affected > 0, nil
}
