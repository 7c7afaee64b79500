package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "45 min", FormatHours(0.75))
	assert.Equal(t, "1 h", FormatHours(1))
	assert.Equal(t, "1 h 30 min", FormatHours(1.5))
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "$40/h", FormatRate(40))
	assert.Equal(t, "$42.50/h", FormatRate(42.5))
	assert.Equal(t, "$63.75", FormatCost(42.5, 1.5))
}

func TestFormatSessionLine(t *testing.T) {
	tutor := &model.Tutor{Subjects: []model.SubjectRef{{ID: 2, Name: "Math & Logic"}}}
	s := &model.Session{
		Subject:       2,
		StudentIDs:    []int64{1, 2},
		SessionDate:   time.Date(2024, 12, 27, 14, 0, 0, 0, time.UTC),
		DurationHours: 1,
		Status:        model.SessionStatusConfirmed,
	}

	assert.Equal(t, "✅ Fri 27 Dec 14:00-15:00, Math &amp; Logic (2 students)", FormatSessionLine(s, tutor))

	s.Subject = 9
	assert.Contains(t, FormatSessionLine(s, tutor), "Subject #9")
}

func TestGetWeekdayShort(t *testing.T) {
	assert.Equal(t, "Mo", GetWeekdayShort(time.Monday))
	assert.Equal(t, "Su", GetWeekdayShort(time.Sunday))
}
