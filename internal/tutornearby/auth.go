package tutornearby

import (
	"context"
	"fmt"
	"net/http"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshTokens обменивает refresh token на новую пару
func (c *Client) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	body := map[string]string{"refresh_token": refreshToken}

	var pair TokenPair
	if err := c.do(ctx, Auth{}, http.MethodPost, "/auth/refresh", nil, body, &pair); err != nil {
		return nil, fmt.Errorf("refresh tokens: %w", err)
	}
	if pair.AccessToken == "" {
		return nil, fmt.Errorf("refresh tokens: empty access token")
	}
	if pair.RefreshToken == "" {
		pair.RefreshToken = refreshToken
	}
	return &pair, nil
}
