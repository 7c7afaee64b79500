package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/redis/go-redis/v9"
)

const availabilityKeyPrefix = "tutornearby:availability:"

// AvailabilityCache кэш настроек доступности на время диалога.
// С nil клиентом ничего не хранит.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

// Enabled есть ли подключение к Redis
func (c *AvailabilityCache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get возвращает настройки или nil при промахе
func (c *AvailabilityCache) Get(ctx context.Context, tutorID int64) (*model.AvailabilitySettings, error) {
	if !c.Enabled() {
		return nil, nil
	}

	raw, err := c.rdb.Get(ctx, availabilityKey(tutorID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached availability: %w", err)
	}

	var settings model.AvailabilitySettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return nil, fmt.Errorf("decode cached availability: %w", err)
	}
	return &settings, nil
}

// Set кладёт настройки в кэш
func (c *AvailabilityCache) Set(ctx context.Context, settings *model.AvailabilitySettings) error {
	if !c.Enabled() || settings == nil {
		return nil
	}

	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode availability: %w", err)
	}
	if err := c.rdb.Set(ctx, availabilityKey(settings.TutorID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache availability: %w", err)
	}
	return nil
}

// Invalidate сбрасывает кэш репетитора (новый диалог = новая загрузка)
func (c *AvailabilityCache) Invalidate(ctx context.Context, tutorID int64) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.rdb.Del(ctx, availabilityKey(tutorID)).Err(); err != nil {
		return fmt.Errorf("invalidate availability: %w", err)
	}
	return nil
}

func availabilityKey(tutorID int64) string {
	return fmt.Sprintf("%s%d", availabilityKeyPrefix, tutorID)
}
