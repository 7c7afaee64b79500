package tutornearby

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-Id"

// maxErrorBody сколько байт тела ошибки читаем для сообщения
const maxErrorBody = 4 << 10

// RefreshFunc получает новый access token после ответа 401
type RefreshFunc func(ctx context.Context) (string, error)

// Auth bearer token и колбэк его обновления для одного вызова
type Auth struct {
	Token   string
	Refresh RefreshFunc
}

// Client HTTP клиент TutorNearby API
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient создаёт клиент. Транспорт оборачивается otelhttp
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api base url must be absolute, got %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger,
	}, nil
}

// do выполняет запрос. При 401 один раз вызывает auth.Refresh и повторяет запрос
func (c *Client) do(ctx context.Context, auth Auth, method, path string, query url.Values, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	token := auth.Token
	for attempt := 0; ; attempt++ {
		resp, requestID, err := c.send(ctx, token, method, path, query, payload)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 && auth.Refresh != nil {
			drain(resp)
			c.logger.Info("Access token rejected, refreshing",
				zap.String("method", method),
				zap.String("path", path),
				zap.String("request_id", requestID))

			token, err = auth.Refresh(ctx)
			if err != nil {
				c.logger.Warn("Token refresh failed", zap.Error(err))
				return &APIError{StatusCode: http.StatusUnauthorized, Message: "token refresh failed", RequestID: requestID}
			}
			continue
		}

		return c.decode(resp, requestID, out)
	}
}

func (c *Client) send(ctx context.Context, token, method, path string, query url.Values, payload []byte) (*http.Response, string, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, requestID, fmt.Errorf("%s %s: %w", method, path, err)
	}

	c.logger.Debug("TutorNearby API call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", requestID))

	return resp, requestID, nil
}

func (c *Client) decode(resp *http.Response, requestID string, out interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
			RequestID:  requestID,
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage достаёт текст ошибки из типичных полей ответа
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Message != "":
			return body.Message
		case body.Detail != "":
			return body.Detail
		case body.Error != "":
			return body.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
}
