package common

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/controller/state"
	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/Freeeeeet/tutornearby_bot/internal/scheduling"
	"github.com/Freeeeeet/tutornearby_bot/internal/service"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func testDialog(t *testing.T) *state.Dialog {
	t.Helper()
	return &state.Dialog{
		Selection: scheduling.NewSelection(7, 1, date(t, "2024-12-20")),
		Tutor: &model.Tutor{
			ID:             7,
			Subjects:       []model.SubjectRef{{ID: 1, Name: "Math"}, {ID: 2, Name: "Physics"}},
			AcademicLevels: model.AcademicLevels{{ID: 10, Label: "High School"}},
			HourlyRate:     40,
		},
		Students: []model.Student{
			{ID: 1, FirstName: "Ann", PreferredSubjects: []int64{1}},
			{ID: 2, FirstName: "Bob", PreferredSubjects: []int64{1, 2}},
		},
	}
}

// callbacks все callback data клавиатуры
func callbacks(kb *models.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			out = append(out, b.CallbackData)
		}
	}
	return out
}

func button(kb *models.InlineKeyboardMarkup, text string) (models.InlineKeyboardButton, bool) {
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			if b.Text == text {
				return b, true
			}
		}
	}
	return models.InlineKeyboardButton{}, false
}

func TestBuildStudentsScreen(t *testing.T) {
	d := testDialog(t)

	screen := BuildStudentsScreen(d)
	assert.NotContains(t, callbacks(screen.Keyboard), StudentsDone)
	assert.Contains(t, screen.Text, "once a student is selected")

	gen := d.Selection.ToggleStudent(1)
	d.Selection.ApplyHired(gen, scheduling.HiredIntersection{Enabled: true})
	screen = BuildStudentsScreen(d)
	assert.NotContains(t, callbacks(screen.Keyboard), StudentsDone)
	assert.Contains(t, screen.Text, "no hired subject and level in common")

	gen = d.Selection.ToggleStudent(2)
	d.Selection.ApplyHired(gen, scheduling.HiredIntersection{Enabled: true, Subjects: []int64{1, 2}, Levels: []int64{10}})
	screen = BuildStudentsScreen(d)
	assert.Contains(t, callbacks(screen.Keyboard), StudentsDone)
	assert.Contains(t, screen.Text, "Hired by all selected: Math, Physics")
	assert.Contains(t, screen.Text, "Preferred by all selected: Math")

	_, ok := button(screen.Keyboard, "✅ Ann")
	assert.True(t, ok)
}

func TestBuildCalendarScreen_DisablesUnavailableDays(t *testing.T) {
	d := testDialog(t)
	maxDays := 10
	d.Availability = &model.AvailabilitySettings{
		Weekly:             map[string]model.DayAvailability{"sunday": {Available: false}},
		MaximumAdvanceDays: &maxDays,
	}

	screen := BuildCalendarScreen(d, date(t, "2024-12-20"))
	cbs := callbacks(screen.Keyboard)

	assert.Contains(t, cbs, SelectDay+"2024-12-20")
	assert.Contains(t, cbs, SelectDay+"2024-12-30")
	assert.NotContains(t, cbs, SelectDay+"2024-12-19", "past day")
	assert.NotContains(t, cbs, SelectDay+"2024-12-22", "sunday is off")
	assert.NotContains(t, cbs, SelectDay+"2024-12-31", "beyond advance window")

	// назад в прошлое нельзя, вперёд за окно записи тоже
	assert.NotContains(t, cbs, ShowMonth+"2024-11")
	assert.NotContains(t, cbs, ShowMonth+"2025-01")
	assert.Contains(t, screen.Text, "Select a date")
}

func TestBuildCalendarScreen_FailOpenNotice(t *testing.T) {
	d := testDialog(t)

	screen := BuildCalendarScreen(d, date(t, "2024-12-20"))
	assert.Contains(t, screen.Text, "all future days are shown")
	assert.Contains(t, callbacks(screen.Keyboard), SelectDay+"2024-12-22")
	assert.Contains(t, callbacks(screen.Keyboard), ShowMonth+"2025-01")
}

func TestBuildTimeScreen_ConflictsAreInert(t *testing.T) {
	d := testDialog(t)
	day := date(t, "2024-12-27")
	gen := d.Selection.SelectDay(day)

	slots := []model.Slot{
		{Start: day.Add(13 * time.Hour)},
		{Start: day.Add(14 * time.Hour)},
		{Start: day.Add(15 * time.Hour)},
	}
	sessions := []model.Session{{SessionDate: day.Add(14 * time.Hour), DurationHours: 1, Status: model.SessionStatusConfirmed}}
	d.Selection.ApplySlots(gen, scheduling.ResolveSlots(day, time.Hour, slots, sessions))

	screen := BuildTimeScreen(d)
	cbs := callbacks(screen.Keyboard)
	assert.Contains(t, cbs, SelectTime+"1300")
	assert.Contains(t, cbs, SelectTime+"1500")
	assert.NotContains(t, cbs, SelectTime+"1400")

	b, ok := button(screen.Keyboard, "⛔ 14:00")
	require.True(t, ok)
	assert.Equal(t, Noop, b.CallbackData)
}

func TestBuildTimeScreen_Empty(t *testing.T) {
	d := testDialog(t)
	d.Selection.SelectDay(date(t, "2024-12-27"))

	screen := BuildTimeScreen(d)
	assert.Contains(t, screen.Text, "No available times")
}

func TestBuildConfirmScreen(t *testing.T) {
	d := testDialog(t)
	screen := BuildConfirmScreen(d)
	assert.NotContains(t, callbacks(screen.Keyboard), Confirm)
	assert.Contains(t, screen.Text, "Select at least one student")

	day := date(t, "2024-12-27")
	gen := d.Selection.ToggleStudent(1)
	d.Selection.ApplyHired(gen, scheduling.HiredIntersection{Enabled: true, Subjects: []int64{1}, Levels: []int64{10}})
	require.NoError(t, d.Selection.SelectSubject(1))
	require.NoError(t, d.Selection.SelectLevel(10))
	dayGen := d.Selection.SelectDay(day)
	d.Selection.ApplySlots(dayGen, scheduling.ResolveSlots(day, time.Hour, []model.Slot{{Start: day.Add(13 * time.Hour)}}, nil))
	require.NoError(t, d.Selection.SelectTime("13:00"))

	screen = BuildConfirmScreen(d)
	assert.Contains(t, callbacks(screen.Keyboard), Confirm)
	assert.Contains(t, screen.Text, "High School")
	assert.Contains(t, screen.Text, "$40/h, total $40.00")
}

func TestBuildRejectedScreen_SuggestsProfile(t *testing.T) {
	d := testDialog(t)

	err := &service.RejectedError{StatusCode: 400, Message: "Tutor does not offer this academic level"}
	screen := BuildRejectedScreen(d, err)
	assert.Contains(t, screen.Text, "TutorNearby profile")
	assert.Contains(t, callbacks(screen.Keyboard), Back+StepSubject)

	screen = BuildRejectedScreen(d, &service.RejectedError{StatusCode: 409, Message: "Slot taken"})
	assert.NotContains(t, screen.Text, "TutorNearby profile")
	assert.False(t, SuggestsProfile(errors.New("academic level")))
}

func TestBuildWeekScreen(t *testing.T) {
	screen := BuildWeekScreen(nil, nil, date(t, "2024-12-23"))
	assert.Contains(t, screen.Text, "No sessions this week")
	assert.True(t, strings.HasPrefix(screen.Text, "<b>🗓 23 Dec to 29 Dec 2024</b>"))
	assert.Contains(t, callbacks(screen.Keyboard), ViewWeek+"2024-12-30")
}

func TestParseTimeArg(t *testing.T) {
	hhmm, err := ParseTimeArg(SelectTime + "0930")
	require.NoError(t, err)
	assert.Equal(t, "09:30", hhmm)
	assert.Equal(t, "0930", TimeArg(hhmm))

	_, err = ParseTimeArg(SelectTime + "9:30")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestBuildTimeScreen_CountsFreeSlots(t *testing.T) {
	d := testDialog(t)
	day := date(t, "2024-12-27")
	gen := d.Selection.SelectDay(day)

	slots := []model.Slot{{Start: day.Add(13 * time.Hour)}, {Start: day.Add(14 * time.Hour)}}
	sessions := []model.Session{{SessionDate: day.Add(14 * time.Hour), DurationHours: 1, Status: model.SessionStatusPending}}
	d.Selection.ApplySlots(gen, scheduling.ResolveSlots(day, time.Hour, slots, sessions))

	assert.Contains(t, BuildTimeScreen(d).Text, "1 slot free")
}

func TestBuildCalendarScreen_RefreshButton(t *testing.T) {
	d := testDialog(t)
	screen := BuildCalendarScreen(d, date(t, "2024-12-20"))
	assert.Contains(t, callbacks(screen.Keyboard), RefreshAvailability)
}
