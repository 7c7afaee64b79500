package tutornearby

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
)

// ListSessions загружает сессии репетитора в диапазоне [from, to]
func (c *Client) ListSessions(ctx context.Context, auth Auth, tutorID int64, from, to time.Time) ([]model.Session, error) {
	query := url.Values{}
	query.Set("start_date", from.UTC().Format(time.RFC3339))
	query.Set("end_date", to.UTC().Format(time.RFC3339))

	var sessions []model.Session
	path := fmt.Sprintf("/sessions/%d", tutorID)
	if err := c.do(ctx, auth, http.MethodGet, path, query, nil, &sessions); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// CreateSession создаёт сессию на сервере
func (c *Client) CreateSession(ctx context.Context, auth Auth, req *model.CreateSessionRequest) (*model.Session, error) {
	var session model.Session
	if err := c.do(ctx, auth, http.MethodPost, "/sessions", nil, req, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &session, nil
}
