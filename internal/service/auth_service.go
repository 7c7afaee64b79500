package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/Freeeeeet/tutornearby_bot/internal/tutornearby"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// TokenRefresher обмен refresh token на новую пару
type TokenRefresher interface {
	RefreshTokens(ctx context.Context, refreshToken string) (*tutornearby.TokenPair, error)
}

// AuthService единая точка доступа к токенам пользователя: вход, чтение, обновление, выход
type AuthService struct {
	sessions AuthSessionStore
	cursors  ChatCursorStore
	api      TokenRefresher
	logger   *zap.Logger

	// refreshMu не даёт двум параллельным 401 обновить токен дважды
	refreshMu sync.Mutex
}

func NewAuthService(sessions AuthSessionStore, cursors ChatCursorStore, api TokenRefresher, logger *zap.Logger) *AuthService {
	return &AuthService{
		sessions: sessions,
		cursors:  cursors,
		api:      api,
		logger:   logger,
	}
}

// TokenClaims то, что бот читает из access token. Подпись не проверяется:
// токен проверяет API при каждом запросе.
type TokenClaims struct {
	TutorID   int64
	ExpiresAt *time.Time
}

// ParseTokenClaims достаёт id репетитора и срок действия из JWT
func ParseTokenClaims(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var tutorID int64
	for _, key := range []string{"tutor_id", "user_id", "sub"} {
		if id, ok := int64Claim(claims[key]); ok && id > 0 {
			tutorID = id
			break
		}
	}
	if tutorID == 0 {
		return nil, fmt.Errorf("%w: no tutor id claim", ErrInvalidToken)
	}

	result := &TokenClaims{TutorID: tutorID}
	if exp, ok := int64Claim(claims["exp"]); ok && exp > 0 {
		t := time.Unix(exp, 0).UTC()
		result.ExpiresAt = &t
	}
	return result, nil
}

func int64Claim(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Login сохраняет токены пользователя
func (s *AuthService) Login(ctx context.Context, telegramID int64, accessToken, refreshToken string) (*model.AuthSession, error) {
	claims, err := ParseTokenClaims(accessToken)
	if err != nil {
		return nil, err
	}

	session := &model.AuthSession{
		TelegramID:   telegramID,
		TutorID:      claims.TutorID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    claims.ExpiresAt,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.logger.Info("Tutor logged in",
		zap.Int64("telegram_id", telegramID),
		zap.Int64("tutor_id", claims.TutorID),
		zap.Bool("has_refresh_token", refreshToken != ""),
	)
	return session, nil
}

// Current текущая сессия или ErrNotLoggedIn
func (s *AuthService) Current(ctx context.Context, telegramID int64) (*model.AuthSession, error) {
	session, err := s.sessions.Get(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, ErrNotLoggedIn
	}
	return session, nil
}

// Logout удаляет токены и курсоры чатов
func (s *AuthService) Logout(ctx context.Context, telegramID int64) error {
	if err := s.cursors.DeleteByTelegramID(ctx, telegramID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	deleted, err := s.sessions.Delete(ctx, telegramID)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if !deleted {
		return ErrNotLoggedIn
	}

	s.logger.Info("Tutor logged out", zap.Int64("telegram_id", telegramID))
	return nil
}

// Auth возвращает токен для запросов к API вместе с колбэком обновления
func (s *AuthService) Auth(ctx context.Context, telegramID int64) (tutornearby.Auth, *model.AuthSession, error) {
	session, err := s.Current(ctx, telegramID)
	if err != nil {
		return tutornearby.Auth{}, nil, err
	}
	return s.AuthFor(session), session, nil
}

// AuthFor строит Auth для уже загруженной сессии
func (s *AuthService) AuthFor(session *model.AuthSession) tutornearby.Auth {
	telegramID := session.TelegramID
	return tutornearby.Auth{
		Token: session.AccessToken,
		Refresh: func(ctx context.Context) (string, error) {
			return s.refresh(ctx, telegramID, session.AccessToken)
		},
	}
}

// refresh обновляет токен. Если другой запрос уже обновил его, возвращает готовый
func (s *AuthService) refresh(ctx context.Context, telegramID int64, rejected string) (string, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	session, err := s.Current(ctx, telegramID)
	if err != nil {
		return "", err
	}
	if session.AccessToken != rejected {
		return session.AccessToken, nil
	}
	if session.RefreshToken == "" {
		return "", fmt.Errorf("refresh token: %w", ErrNotLoggedIn)
	}

	pair, err := s.api.RefreshTokens(ctx, session.RefreshToken)
	if err != nil {
		return "", err
	}

	session.AccessToken = pair.AccessToken
	session.RefreshToken = pair.RefreshToken
	if claims, err := ParseTokenClaims(pair.AccessToken); err == nil {
		session.ExpiresAt = claims.ExpiresAt
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return "", fmt.Errorf("save refreshed session: %w", err)
	}

	s.logger.Info("Access token refreshed", zap.Int64("telegram_id", telegramID))
	return pair.AccessToken, nil
}
