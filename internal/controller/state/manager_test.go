package state

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/Freeeeeet/tutornearby_bot/internal/scheduling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDialog(t *testing.T) *Dialog {
	t.Helper()
	today, err := model.ParseDate("2024-12-20")
	require.NoError(t, err)
	return &Dialog{
		Selection: scheduling.NewSelection(7, 1, today),
		Students: []model.Student{
			{ID: 1, FirstName: "Ann"},
			{ID: 2, FirstName: "Bob"},
		},
	}
}

func TestManager_UpdateWithoutDialog(t *testing.T) {
	m := NewManager()
	err := m.Update(100, func(d *Dialog) error { return nil })
	assert.ErrorIs(t, err, ErrNoDialog)
	assert.Equal(t, StateNone, m.GetState(100))
}

func TestManager_GetReturnsCopy(t *testing.T) {
	m := NewManager()
	m.Start(100, newDialog(t))

	d, ok := m.Get(100)
	require.True(t, ok)
	d.Selection.ToggleStudent(1)

	fresh, _ := m.Get(100)
	assert.Empty(t, fresh.Selection.StudentIDs)
}

func TestManager_UpdateErrorKeepsMutation(t *testing.T) {
	m := NewManager()
	m.Start(100, newDialog(t))

	boom := errors.New("boom")
	_, err := m.UpdateSnapshot(100, func(d *Dialog) error {
		d.State = StateSessionNotes
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateSessionNotes, m.GetState(100))
}

func TestManager_ApplyHired_StaleAndReplaced(t *testing.T) {
	m := NewManager()
	m.Start(100, newDialog(t))

	var first, second uint64
	snap, err := m.UpdateSnapshot(100, func(d *Dialog) error {
		first = d.Selection.ToggleStudent(1)
		second = d.Selection.ToggleStudent(2)
		return nil
	})
	require.NoError(t, err)
	draft := snap.Selection.DraftID

	// ответ для {1} пришёл после выбора {1,2}
	_, applied := m.ApplyHired(100, draft, first, scheduling.HiredIntersection{Enabled: true, Subjects: []int64{1, 2}, Levels: []int64{10}})
	assert.False(t, applied)

	d, applied := m.ApplyHired(100, draft, second, scheduling.HiredIntersection{Enabled: true, Subjects: []int64{1}, Levels: []int64{10}})
	require.True(t, applied)
	assert.Equal(t, []int64{1}, d.Selection.Hired.Subjects)

	// форма пересоздана: ответ для старой формы игнорируется
	m.Start(100, newDialog(t))
	_, applied = m.ApplyHired(100, draft, second, scheduling.HiredIntersection{Enabled: true})
	assert.False(t, applied)
}

func TestManager_ApplySlots_LastDayWins(t *testing.T) {
	m := NewManager()
	m.Start(100, newDialog(t))

	day1, _ := model.ParseDate("2024-12-27")
	day2, _ := model.ParseDate("2024-12-28")

	var gen1, gen2 uint64
	snap, err := m.UpdateSnapshot(100, func(d *Dialog) error {
		gen1 = d.Selection.SelectDay(day1)
		gen2 = d.Selection.SelectDay(day2)
		return nil
	})
	require.NoError(t, err)

	view1 := scheduling.ResolveSlots(day1, time.Hour, []model.Slot{{Start: day1.Add(9 * time.Hour)}}, nil)
	view2 := scheduling.ResolveSlots(day2, time.Hour, []model.Slot{{Start: day2.Add(10 * time.Hour)}}, nil)

	// ответы пришли в обратном порядке
	_, applied := m.ApplySlots(100, snap.Selection.DraftID, gen2, view2)
	require.True(t, applied)
	_, applied = m.ApplySlots(100, snap.Selection.DraftID, gen1, view1)
	assert.False(t, applied)

	d, _ := m.Get(100)
	assert.Equal(t, []string{"10:00"}, d.Selection.Slots.Times())
}

func TestManager_ConcurrentUpdates(t *testing.T) {
	m := NewManager()
	m.Start(100, newDialog(t))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Update(100, func(d *Dialog) error {
				d.Selection.ToggleStudent(1)
				return nil
			})
		}()
	}
	wg.Wait()

	d, _ := m.Get(100)
	assert.Equal(t, uint64(50), d.Selection.StudentsGen)
	assert.Empty(t, d.Selection.StudentIDs)
}

func TestDialog_SelectedStudents(t *testing.T) {
	d := newDialog(t)
	d.Selection.ToggleStudent(2)
	d.Selection.ToggleStudent(1)
	d.Selection.ToggleStudent(3)

	got := d.SelectedStudents()
	require.Len(t, got, 2)
	assert.Equal(t, "Bob", got[0].FirstName)
	assert.Equal(t, "Ann", got[1].FirstName)
}

func TestManager_ClearState(t *testing.T) {
	m := NewManager()
	m.Start(100, newDialog(t))
	assert.True(t, m.ClearState(100))
	assert.False(t, m.ClearState(100))
}

func TestManager_ClaimSubmitOnce(t *testing.T) {
	m := NewManager()
	m.Start(100, newDialog(t))

	var wg sync.WaitGroup
	var mu sync.Mutex
	claimed, refused := 0, 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.ClaimSubmit(100)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				claimed++
			case errors.Is(err, ErrSubmitInProgress):
				refused++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, claimed)
	assert.Equal(t, 9, refused)
}

func TestManager_ReleaseSubmitAllowsRetry(t *testing.T) {
	m := NewManager()
	m.Start(100, newDialog(t))

	d, err := m.ClaimSubmit(100)
	require.NoError(t, err)
	assert.True(t, d.Submitting)

	m.ReleaseSubmit(100, d.Selection.DraftID)
	_, err = m.ClaimSubmit(100)
	assert.NoError(t, err)
}

func TestManager_FinishChecksDraft(t *testing.T) {
	m := NewManager()
	old := newDialog(t)
	m.Start(100, old)
	m.Start(100, newDialog(t))

	assert.False(t, m.Finish(100, old.Selection.DraftID))
	_, ok := m.Get(100)
	assert.True(t, ok)

	current, _ := m.Get(100)
	assert.True(t, m.Finish(100, current.Selection.DraftID))
	_, ok = m.Get(100)
	assert.False(t, ok)
}
