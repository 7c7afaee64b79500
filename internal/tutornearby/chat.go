package tutornearby

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
)

// ListConversations диалоги пользователя
func (c *Client) ListConversations(ctx context.Context, auth Auth, userID int64) ([]model.Conversation, error) {
	var conversations []model.Conversation
	path := fmt.Sprintf("/chats/%d/conversations", userID)
	if err := c.do(ctx, auth, http.MethodGet, path, nil, nil, &conversations); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return conversations, nil
}

// ListMessages сообщения диалога с id больше afterID
func (c *Client) ListMessages(ctx context.Context, auth Auth, conversationID, afterID int64) ([]model.ChatMessage, error) {
	query := url.Values{}
	if afterID > 0 {
		query.Set("after_id", strconv.FormatInt(afterID, 10))
	}

	var messages []model.ChatMessage
	path := fmt.Sprintf("/chats/conversations/%d/messages", conversationID)
	if err := c.do(ctx, auth, http.MethodGet, path, query, nil, &messages); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}
