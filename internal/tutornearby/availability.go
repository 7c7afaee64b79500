package tutornearby

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
)

// GetAvailability загружает настройки доступности репетитора
func (c *Client) GetAvailability(ctx context.Context, auth Auth, tutorID int64) (*model.AvailabilitySettings, error) {
	var settings model.AvailabilitySettings
	path := fmt.Sprintf("/availability/%d", tutorID)
	if err := c.do(ctx, auth, http.MethodGet, path, nil, nil, &settings); err != nil {
		return nil, fmt.Errorf("get availability: %w", err)
	}
	if settings.TutorID == 0 {
		settings.TutorID = tutorID
	}
	return &settings, nil
}

// GetSlots загружает кандидатов времени на день для заданной длительности
func (c *Client) GetSlots(ctx context.Context, auth Auth, tutorID int64, day model.Date, duration time.Duration) ([]model.Slot, error) {
	query := url.Values{}
	query.Set("date", day.String())
	query.Set("duration_minutes", strconv.Itoa(int(duration/time.Minute)))

	var slots []model.Slot
	path := fmt.Sprintf("/availability/%d/slots", tutorID)
	if err := c.do(ctx, auth, http.MethodGet, path, query, nil, &slots); err != nil {
		return nil, fmt.Errorf("get slots: %w", err)
	}
	return slots, nil
}
