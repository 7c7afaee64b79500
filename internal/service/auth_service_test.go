package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseTokenClaims(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		claims  jwt.MapClaims
		tutorID int64
		wantExp bool
	}{
		{"tutor_id claim", jwt.MapClaims{"tutor_id": 7, "exp": exp.Unix()}, 7, true},
		{"user_id claim", jwt.MapClaims{"user_id": 8}, 8, false},
		{"numeric sub", jwt.MapClaims{"sub": "9", "exp": exp.Unix()}, 9, true},
		{"tutor_id wins over sub", jwt.MapClaims{"tutor_id": 3, "sub": "11"}, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseTokenClaims(signedToken(t, tt.claims))
			require.NoError(t, err)
			assert.Equal(t, tt.tutorID, claims.TutorID)
			if tt.wantExp {
				require.NotNil(t, claims.ExpiresAt)
				assert.True(t, exp.Equal(*claims.ExpiresAt))
			} else {
				assert.Nil(t, claims.ExpiresAt)
			}
		})
	}
}

func TestParseTokenClaims_Rejects(t *testing.T) {
	_, err := ParseTokenClaims("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseTokenClaims(signedToken(t, jwt.MapClaims{"sub": "alice"}))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_LoginCurrentLogout(t *testing.T) {
	ctx := context.Background()
	sessions, cursors := newMemSessions(), newMemCursors()
	svc := NewAuthService(sessions, cursors, nil, zap.NewNop())

	_, err := svc.Current(ctx, 100)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	token := signedToken(t, jwt.MapClaims{"tutor_id": 7})
	session, err := svc.Login(ctx, 100, token, "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), session.TutorID)

	current, err := svc.Current(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, token, current.AccessToken)

	require.NoError(t, cursors.Advance(ctx, 100, 1, 5))
	require.NoError(t, svc.Logout(ctx, 100))

	_, found, _ := cursors.Get(ctx, 100, 1)
	assert.False(t, found)
	assert.ErrorIs(t, svc.Logout(ctx, 100), ErrNotLoggedIn)
}

func TestAuthService_RefreshesAndPersistsToken(t *testing.T) {
	ctx := context.Background()
	oldToken := signedToken(t, jwt.MapClaims{"tutor_id": 7, "v": 1})
	newToken := signedToken(t, jwt.MapClaims{"tutor_id": 7, "v": 2})

	var refreshCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshCalls, 1)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-1", body["refresh_token"])
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token":  newToken,
			"refresh_token": "refresh-2",
		})
	})
	mux.HandleFunc("/availability/7", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+newToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"weekly_schedule":{}}`))
	})
	api := newAPI(t, mux)

	sessions := newMemSessions()
	svc := NewAuthService(sessions, newMemCursors(), api, zap.NewNop())
	_, err := svc.Login(ctx, 100, oldToken, "refresh-1")
	require.NoError(t, err)

	auth, _, err := svc.Auth(ctx, 100)
	require.NoError(t, err)

	settings, err := api.GetAvailability(ctx, auth, 7)
	require.NoError(t, err)
	require.NotNil(t, settings)

	stored, err := svc.Current(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, newToken, stored.AccessToken)
	assert.Equal(t, "refresh-2", stored.RefreshToken)

	// второй 401 со старым токеном не вызывает повторного обновления
	token, err := auth.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, newToken, token)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshCalls))
}

func TestAuthService_RefreshWithoutRefreshToken(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(newMemSessions(), newMemCursors(), nil, zap.NewNop())

	_, err := svc.Login(ctx, 100, signedToken(t, jwt.MapClaims{"tutor_id": 7}), "")
	require.NoError(t, err)

	auth, _, err := svc.Auth(ctx, 100)
	require.NoError(t, err)

	_, err = auth.Refresh(ctx)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
