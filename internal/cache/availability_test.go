package cache

import (
	"context"
	"testing"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityCache_DisabledWithoutRedis(t *testing.T) {
	c := NewAvailabilityCache(nil, 0)
	assert.False(t, c.Enabled())

	require.NoError(t, c.Set(context.Background(), &model.AvailabilitySettings{TutorID: 7}))
	got, err := c.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Invalidate(context.Background(), 7))
}

func TestAvailabilityKey(t *testing.T) {
	assert.Equal(t, "tutornearby:availability:42", availabilityKey(42))
}

func TestConnect_EmptyAddrMeansNoCache(t *testing.T) {
	rdb, err := Connect(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, rdb)
}
