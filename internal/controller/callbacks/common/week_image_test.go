package common

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStart(t *testing.T) {
	for _, day := range []string{"2024-12-23", "2024-12-25", "2024-12-29"} {
		d, err := model.ParseDate(day)
		require.NoError(t, err)
		assert.Equal(t, "2024-12-23", WeekStart(d).String(), day)
	}
}

func TestCalculateHourRange(t *testing.T) {
	assert.Equal(t, hourRange{start: 7, end: 21, total: 14}, calculateHourRange(nil))

	sessions := []model.Session{
		{SessionDate: time.Date(2024, 12, 27, 9, 0, 0, 0, time.UTC), DurationHours: 1},
		{SessionDate: time.Date(2024, 12, 28, 16, 30, 0, 0, time.UTC), DurationHours: 1.5},
	}
	assert.Equal(t, hourRange{start: 8, end: 19, total: 11}, calculateHourRange(sessions))
}

func TestGenerateWeekImage(t *testing.T) {
	monday, err := model.ParseDate("2024-12-23")
	require.NoError(t, err)

	img, err := GenerateWeekImage(WeekImage{
		WeekStart: monday,
		Sessions: []model.Session{
			{ID: 1, StudentIDs: []int64{1}, SessionDate: time.Date(2024, 12, 27, 14, 0, 0, 0, time.UTC), DurationHours: 1, Status: model.SessionStatusConfirmed},
			{ID: 2, StudentIDs: []int64{1, 2}, SessionDate: time.Date(2024, 12, 24, 9, 0, 0, 0, time.UTC), DurationHours: 2, Status: model.SessionStatusPending},
		},
		StudentNames: map[int64]string{1: "Ann"},
		Now:          time.Date(2024, 12, 25, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, decoded.Bounds().Dx())
	assert.Equal(t, imageHeight, decoded.Bounds().Dy())
}
