package scheduling

import (
	"testing"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

func TestIsDaySelectable_PastDays(t *testing.T) {
	today := date(t, "2024-12-20")
	settings := &model.AvailabilitySettings{}

	for i := 1; i <= 60; i++ {
		d := today.AddDays(-i)
		assert.False(t, IsDaySelectable(d, settings, today), d.String())
		assert.False(t, IsDaySelectable(d, nil, today), d.String())
	}
	assert.True(t, IsDaySelectable(today, settings, today))
}

func TestIsDaySelectable_Blackout(t *testing.T) {
	today := date(t, "2024-12-20")
	settings := &model.AvailabilitySettings{
		BlackoutDates: []model.BlackoutDate{
			{StartDate: date(t, "2024-12-24"), EndDate: date(t, "2024-12-26"), IsActive: boolPtr(true)},
		},
	}

	assert.False(t, IsDaySelectable(date(t, "2024-12-24"), settings, today))
	assert.False(t, IsDaySelectable(date(t, "2024-12-25"), settings, today))
	assert.False(t, IsDaySelectable(date(t, "2024-12-26"), settings, today))
	assert.True(t, IsDaySelectable(date(t, "2024-12-23"), settings, today))
	assert.True(t, IsDaySelectable(date(t, "2024-12-27"), settings, today))
}

func TestIsDaySelectable_InactiveBlackoutIgnored(t *testing.T) {
	today := date(t, "2024-12-20")
	settings := &model.AvailabilitySettings{
		BlackoutDates: []model.BlackoutDate{
			{StartDate: date(t, "2024-12-24"), EndDate: date(t, "2024-12-26"), IsActive: boolPtr(false)},
		},
	}
	assert.True(t, IsDaySelectable(date(t, "2024-12-25"), settings, today))

	settings.BlackoutDates[0].IsActive = nil
	assert.False(t, IsDaySelectable(date(t, "2024-12-25"), settings, today), "missing is_active counts as active")
}

func TestIsDaySelectable_AdvanceHorizon(t *testing.T) {
	today := date(t, "2024-12-20")
	settings := &model.AvailabilitySettings{MaximumAdvanceDays: intPtr(14)}

	assert.True(t, IsDaySelectable(today.AddDays(14), settings, today))
	for i := 15; i < 60; i++ {
		assert.False(t, IsDaySelectable(today.AddDays(i), settings, today))
	}
}

func TestIsDaySelectable_WeeklyTemplate(t *testing.T) {
	today := date(t, "2024-12-16") // понедельник
	settings := &model.AvailabilitySettings{
		Weekly: map[string]model.DayAvailability{
			"monday":  {Available: true, Start: "09:00", End: "17:00"},
			"tuesday": {Available: false},
		},
	}

	assert.True(t, IsDaySelectable(date(t, "2024-12-16"), settings, today))
	assert.False(t, IsDaySelectable(date(t, "2024-12-17"), settings, today))
	assert.True(t, IsDaySelectable(date(t, "2024-12-18"), settings, today), "days without template entry stay open")
}

func TestIsDaySelectable_FailOpen(t *testing.T) {
	today := date(t, "2024-12-20")
	assert.True(t, IsDaySelectable(today.AddDays(400), nil, today))
}

func TestMonthGrid(t *testing.T) {
	today := date(t, "2024-12-10")
	settings := &model.AvailabilitySettings{
		BlackoutDates: []model.BlackoutDate{
			{StartDate: date(t, "2024-12-24"), EndDate: date(t, "2024-12-26"), IsActive: boolPtr(true)},
		},
	}

	cells := MonthGrid(2024, time.December, settings, today)

	// 1 декабря 2024 воскресенье: сетка начинается 25 ноября и кончается 5 января
	require.Len(t, cells, 42)
	assert.Equal(t, "2024-11-25", cells[0].Date.String())
	assert.Equal(t, "2025-01-05", cells[len(cells)-1].Date.String())
	assert.Equal(t, time.Monday, cells[0].Date.Weekday())

	byDate := make(map[string]DayCell, len(cells))
	for _, c := range cells {
		byDate[c.Date.String()] = c
	}
	assert.False(t, byDate["2024-11-30"].InMonth)
	assert.False(t, byDate["2024-11-30"].Selectable)
	assert.False(t, byDate["2024-12-09"].Selectable)
	assert.True(t, byDate["2024-12-10"].Selectable)
	assert.False(t, byDate["2024-12-25"].Selectable)
	assert.True(t, byDate["2024-12-27"].Selectable)
}

func TestMonthGrid_FullWeeks(t *testing.T) {
	today := date(t, "2020-01-01")
	for month := time.January; month <= time.December; month++ {
		cells := MonthGrid(2026, month, nil, today)
		assert.Zero(t, len(cells)%7, month.String())
		assert.GreaterOrEqual(t, len(cells), 28)
		assert.LessOrEqual(t, len(cells), 42)
	}
}
