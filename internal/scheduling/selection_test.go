package scheduling

import (
	"testing"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readySelection(t *testing.T) *Selection {
	t.Helper()
	day := date(t, "2024-12-27")
	s := NewSelection(7, 1, date(t, "2024-12-20"))

	gen := s.ToggleStudent(10)
	require.True(t, s.ApplyHired(gen, HiredIntersection{Enabled: true, Subjects: []int64{math}, Levels: []int64{6}}))
	require.NoError(t, s.SelectSubject(math))
	require.NoError(t, s.SelectLevel(6))

	dayGen := s.SelectDay(day)
	view := ResolveSlots(day, time.Hour, []model.Slot{{Start: at(day, 13, 0)}, {Start: at(day, 14, 0)}},
		[]model.Session{{SessionDate: at(day, 14, 0), DurationHours: 1, Status: model.SessionStatusConfirmed}})
	require.True(t, s.ApplySlots(dayGen, view))
	require.NoError(t, s.SelectTime("13:00"))
	return s
}

func TestSelection_CanSubmit(t *testing.T) {
	s := readySelection(t)
	assert.True(t, s.CanSubmit())

	req, err := s.Request(25)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, req.StudentIDs)
	assert.Equal(t, time.Date(2024, 12, 27, 13, 0, 0, 0, time.UTC), req.SessionDate)
	assert.Equal(t, 1.0, req.DurationHours)
	assert.Equal(t, 25.0, req.HourlyRate)
}

func TestSelection_ConflictingTimeRejected(t *testing.T) {
	s := readySelection(t)
	assert.ErrorIs(t, s.SelectTime("14:00"), ErrSlotConflict)
	assert.ErrorIs(t, s.SelectTime("16:00"), ErrSlotUnknown)
	assert.Equal(t, "13:00", s.Time)
}

func TestSelection_EmptyIntersectionBlocksSubmit(t *testing.T) {
	s := readySelection(t)

	gen := s.ToggleStudent(20)
	require.True(t, s.ApplyHired(gen, HiredIntersection{Enabled: true, Subjects: nil, Levels: []int64{6}}))

	assert.Zero(t, s.Subject)
	assert.False(t, s.CanSubmit())
	_, err := s.Request(25)
	assert.ErrorIs(t, err, ErrEmptyHiredIntersection)
}

func TestSelection_NoStudents(t *testing.T) {
	s := NewSelection(7, 1, date(t, "2024-12-20"))
	assert.ErrorIs(t, s.Validate(), ErrNoStudents)
	assert.False(t, s.Hired.Enabled)

	s.ToggleStudent(10)
	s.ToggleStudent(10)
	assert.Empty(t, s.StudentIDs)
	assert.False(t, s.Hired.Enabled)
}

func TestSelection_StaleHiredResultDiscarded(t *testing.T) {
	s := NewSelection(7, 1, date(t, "2024-12-20"))

	slowGen := s.ToggleStudent(10)
	fastGen := s.ToggleStudent(20)

	newer := HiredIntersection{Enabled: true, Subjects: []int64{math}, Levels: []int64{6}}
	older := HiredIntersection{Enabled: true, Subjects: []int64{math, physics}, Levels: []int64{5, 6}}

	require.True(t, s.ApplyHired(fastGen, newer))
	assert.False(t, s.ApplyHired(slowGen, older))
	assert.Equal(t, newer, s.Hired)
}

func TestSelection_StaleSlotsDiscarded(t *testing.T) {
	s := NewSelection(7, 1, date(t, "2024-12-20"))
	first := date(t, "2024-12-27")
	second := date(t, "2024-12-28")

	firstGen := s.SelectDay(first)
	secondGen := s.SelectDay(second)

	require.True(t, s.ApplySlots(secondGen, ResolveSlots(second, time.Hour, []model.Slot{{Start: at(second, 9, 0)}}, nil)))
	assert.False(t, s.ApplySlots(firstGen, ResolveSlots(first, time.Hour, []model.Slot{{Start: at(first, 18, 0)}}, nil)))
	assert.Equal(t, []string{"09:00"}, s.Slots.Times())
}

func TestSelection_DayChangeDoesNotInvalidateHired(t *testing.T) {
	s := NewSelection(7, 1, date(t, "2024-12-20"))
	gen := s.ToggleStudent(10)
	s.SelectDay(date(t, "2024-12-27"))

	assert.True(t, s.ApplyHired(gen, HiredIntersection{Enabled: true, Subjects: []int64{math}, Levels: []int64{6}}))
}

func TestSelection_ShowMonthWraps(t *testing.T) {
	s := NewSelection(7, 1, date(t, "2024-12-20"))
	s.ShowMonth(s.Year, s.Month+1)
	assert.Equal(t, 2025, s.Year)
	assert.Equal(t, time.January, s.Month)
}

func TestSelection_CloneIsIndependent(t *testing.T) {
	s := readySelection(t)
	c := s.Clone()
	c.StudentIDs[0] = 99
	c.Day = nil
	assert.Equal(t, []int64{10}, s.StudentIDs)
	assert.NotNil(t, s.Day)
}
