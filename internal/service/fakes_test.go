package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/Freeeeeet/tutornearby_bot/internal/tutornearby"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memSessions struct {
	mu   sync.Mutex
	byID map[int64]model.AuthSession
}

func newMemSessions() *memSessions {
	return &memSessions{byID: make(map[int64]model.AuthSession)}
}

func (m *memSessions) Save(_ context.Context, s *model.AuthSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[s.TelegramID] = *s
	return nil
}

func (m *memSessions) Get(_ context.Context, telegramID int64) (*model.AuthSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[telegramID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memSessions) ListAll(_ context.Context) ([]*model.AuthSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.AuthSession, 0, len(m.byID))
	for _, s := range m.byID {
		s := s
		out = append(out, &s)
	}
	return out, nil
}

func (m *memSessions) Delete(_ context.Context, telegramID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byID[telegramID]
	delete(m.byID, telegramID)
	return ok, nil
}

type cursorKey struct{ tg, conv int64 }

type memCursors struct {
	mu  sync.Mutex
	pos map[cursorKey]int64
}

func newMemCursors() *memCursors {
	return &memCursors{pos: make(map[cursorKey]int64)}
}

func (m *memCursors) Get(_ context.Context, telegramID, conversationID int64) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.pos[cursorKey{telegramID, conversationID}]
	return v, ok, nil
}

func (m *memCursors) Advance(_ context.Context, telegramID, conversationID, messageID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := cursorKey{telegramID, conversationID}
	if cur, ok := m.pos[k]; !ok || messageID > cur {
		m.pos[k] = messageID
	}
	return nil
}

func (m *memCursors) DeleteByTelegramID(_ context.Context, telegramID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.pos {
		if k.tg == telegramID {
			delete(m.pos, k)
		}
	}
	return nil
}

type memCache struct {
	mu    sync.Mutex
	items map[int64]model.AvailabilitySettings
}

func newMemCache() *memCache {
	return &memCache{items: make(map[int64]model.AvailabilitySettings)}
}

func (m *memCache) Get(_ context.Context, tutorID int64) (*model.AvailabilitySettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.items[tutorID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memCache) Set(_ context.Context, s *model.AvailabilitySettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[s.TutorID] = *s
	return nil
}

func (m *memCache) Invalidate(_ context.Context, tutorID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, tutorID)
	return nil
}

func newAPI(t *testing.T, mux *http.ServeMux) *tutornearby.Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := tutornearby.NewClient(srv.URL, 2*time.Second, zap.NewNop())
	require.NoError(t, err)
	return client
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func mustDate(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}
