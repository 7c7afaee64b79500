package scheduling

import (
	"sort"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
)

const TimeLayout = "15:04"

// SlotOption время начала для выбранного дня
type SlotOption struct {
	Time     string // HH:mm
	Start    time.Time
	Conflict bool
}

// SlotView отсортированные уникальные времена дня с пометкой конфликтов
type SlotView struct {
	Day      model.Date
	Duration time.Duration
	Options  []SlotOption
}

// Times все времена, включая конфликтующие
func (v SlotView) Times() []string {
	times := make([]string, 0, len(v.Options))
	for _, opt := range v.Options {
		times = append(times, opt.Time)
	}
	return times
}

// Conflicts времена, пересекающиеся с блокирующими сессиями
func (v SlotView) Conflicts() []string {
	var times []string
	for _, opt := range v.Options {
		if opt.Conflict {
			times = append(times, opt.Time)
		}
	}
	return times
}

// Option ищет вариант по HH:mm
func (v SlotView) Option(hhmm string) (SlotOption, bool) {
	for _, opt := range v.Options {
		if opt.Time == hhmm {
			return opt, true
		}
	}
	return SlotOption{}, false
}

// Empty нет ни одного времени
func (v SlotView) Empty() bool {
	return len(v.Options) == 0
}

// ResolveSlots сворачивает сырые слоты к уникальным HH:mm (UTC) и помечает
// те, чей интервал [start, start+duration) пересекается с блокирующей сессией.
// Конфликтующие времена остаются в списке.
func ResolveSlots(day model.Date, duration time.Duration, raw []model.Slot, sessions []model.Session) SlotView {
	view := SlotView{Day: day, Duration: duration}

	seen := make(map[string]bool, len(raw))
	for _, slot := range raw {
		start := slot.Start.UTC()
		hhmm := start.Format(TimeLayout)
		if seen[hhmm] {
			continue
		}
		seen[hhmm] = true

		slotStart := time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, time.UTC)
		view.Options = append(view.Options, SlotOption{Time: hhmm, Start: slotStart})
	}

	sort.Slice(view.Options, func(i, j int) bool {
		return view.Options[i].Time < view.Options[j].Time
	})

	blocking := blockingIntervals(sessions)
	for i := range view.Options {
		start := view.Options[i].Start
		view.Options[i].Conflict = overlapsAny(start, start.Add(duration), blocking)
	}

	return view
}

type interval struct {
	start time.Time
	end   time.Time
}

func blockingIntervals(sessions []model.Session) []interval {
	intervals := make([]interval, 0, len(sessions))
	for i := range sessions {
		if !sessions[i].Status.IsBlocking() {
			continue
		}
		start, end := sessions[i].Interval()
		intervals = append(intervals, interval{start: start, end: end})
	}
	return intervals
}

func overlapsAny(start, end time.Time, busy []interval) bool {
	for _, b := range busy {
		// [start,end) и [b.start,b.end) пересекаются, если start < b.end && b.start < end
		if start.Before(b.end) && b.start.Before(end) {
			return true
		}
	}
	return false
}
