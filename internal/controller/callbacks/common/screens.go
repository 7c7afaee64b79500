package common

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/state"
	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/Freeeeeet/tutornearby_bot/internal/scheduling"
	"github.com/go-telegram/bot/models"
)

// maxMonthsAhead сколько месяцев вперёд листается календарь без ограничения в настройках
const maxMonthsAhead = 12

// Screen текст и клавиатура одного шага формы
type Screen struct {
	Text     string
	Keyboard *models.InlineKeyboardMarkup
}

// subjectName название предмета или #id, если профиль репетитора его не знает
func subjectName(d *state.Dialog, id int64) string {
	if d.Tutor != nil {
		if name := d.Tutor.SubjectName(id); name != "" {
			return name
		}
	}
	return fmt.Sprintf("Subject #%d", id)
}

func levelLabel(d *state.Dialog, id int64) string {
	if d.Tutor != nil {
		if label := d.Tutor.LevelLabel(id); label != "" {
			return label
		}
	}
	for _, s := range d.Students {
		for _, l := range s.AcademicLevel {
			if l.ID == id && l.Label != "" {
				return l.Label
			}
		}
	}
	return fmt.Sprintf("Level #%d", id)
}

// summary уже выбранные поля формы
func summary(d *state.Dialog) string {
	sel := d.Selection
	var sb strings.Builder
	sb.WriteString("<b>📝 New session</b>\n\n")

	if students := d.SelectedStudents(); len(students) > 0 {
		fmt.Fprintf(&sb, "👥 %s\n", formatting.FormatNames(students))
	}
	if sel.Subject != 0 {
		fmt.Fprintf(&sb, "📚 %s\n", html.EscapeString(subjectName(d, sel.Subject)))
	}
	if sel.AcademicLevel != 0 {
		fmt.Fprintf(&sb, "🎓 %s\n", html.EscapeString(levelLabel(d, sel.AcademicLevel)))
	}
	if sel.Day != nil {
		fmt.Fprintf(&sb, "📅 %s\n", formatting.FormatDate(*sel.Day))
	}
	if sel.Time != "" {
		fmt.Fprintf(&sb, "🕐 %s UTC, %s\n", sel.Time, formatting.FormatHours(sel.DurationHours))
	}
	if sel.Notes != "" {
		fmt.Fprintf(&sb, "🗒 %s\n", html.EscapeString(sel.Notes))
	}
	return sb.String()
}

// BuildStudentsScreen выбор учеников. Пока ученики не выбраны или у них нет
// общего предмета и уровня, дальше пройти нельзя.
func BuildStudentsScreen(d *state.Dialog) Screen {
	sel := d.Selection
	var sb strings.Builder
	sb.WriteString(summary(d))
	sb.WriteString("\nSelect the students for this session:\n")

	kb := keyboard.NewBuilder()
	buttons := make([]models.InlineKeyboardButton, 0, len(d.Students))
	for _, s := range d.Students {
		mark := "▫️"
		if sel.HasStudent(s.ID) {
			mark = "✅"
		}
		buttons = append(buttons, keyboard.Button(mark+" "+s.DisplayName(), ToggleStudent+strconv.FormatInt(s.ID, 10)))
	}
	kb.Grid(2, buttons...)

	switch {
	case len(d.Students) == 0:
		sb.WriteString("\n<i>You have no students on TutorNearby yet.</i>\n")
	case !sel.Hired.Enabled:
		sb.WriteString("\n<i>Subject and level become available once a student is selected.</i>\n")
	case sel.Hired.Empty():
		sb.WriteString("\n" + ErrorMessage(scheduling.ErrEmptyHiredIntersection) + ".\n")
	default:
		subjects := make([]string, 0, len(sel.Hired.Subjects))
		for _, id := range sel.Hired.Subjects {
			subjects = append(subjects, html.EscapeString(subjectName(d, id)))
		}
		fmt.Fprintf(&sb, "\nHired by all selected: %s\n", strings.Join(subjects, ", "))
	}

	if d.Tutor != nil {
		if preferred := scheduling.PreferredSubjectsOverlap(d.SelectedStudents(), d.Tutor.Subjects); len(preferred) > 0 {
			fmt.Fprintf(&sb, "Preferred by all selected: %s\n", formatting.FormatSubjects(preferred))
		}
	}

	if sel.Hired.Enabled && !sel.Hired.Empty() {
		kb.Row(keyboard.NextButton(StudentsDone))
	}
	kb.Row(keyboard.CancelButton(CancelForm))

	return Screen{Text: sb.String(), Keyboard: kb.Build()}
}

// BuildSubjectScreen выбор предмета из пересечения
func BuildSubjectScreen(d *state.Dialog) Screen {
	sel := d.Selection
	kb := keyboard.NewBuilder()
	for _, id := range sel.Hired.Subjects {
		text := subjectName(d, id)
		if id == sel.Subject {
			text = "✅ " + text
		}
		kb.Row(keyboard.Button(text, SelectSubject+strconv.FormatInt(id, 10)))
	}
	kb.AddBackCancel(Back+StepStudents, CancelForm)

	return Screen{
		Text:     summary(d) + "\nSelect a subject:",
		Keyboard: kb.Build(),
	}
}

// BuildLevelScreen выбор уровня из пересечения
func BuildLevelScreen(d *state.Dialog) Screen {
	sel := d.Selection
	kb := keyboard.NewBuilder()
	for _, id := range sel.Hired.Levels {
		text := levelLabel(d, id)
		if id == sel.AcademicLevel {
			text = "✅ " + text
		}
		kb.Row(keyboard.Button(text, SelectLevel+strconv.FormatInt(id, 10)))
	}
	kb.AddBackCancel(Back+StepSubject, CancelForm)

	return Screen{
		Text:     summary(d) + "\nSelect an academic level:",
		Keyboard: kb.Build(),
	}
}

// BuildCalendarScreen месяц с доступными днями и выбор длительности
func BuildCalendarScreen(d *state.Dialog, today model.Date) Screen {
	sel := d.Selection
	cells := scheduling.MonthGrid(sel.Year, sel.Month, d.Availability, today)

	kb := keyboard.NewBuilder()
	kb.Row(keyboard.MonthPagination(ShowMonth, sel.Year, sel.Month,
		canShowPrevMonth(sel.Year, sel.Month, today),
		canShowNextMonth(sel.Year, sel.Month, d.Availability, today),
	)...)

	header := make([]models.InlineKeyboardButton, 0, 7)
	for i := 0; i < 7; i++ {
		header = append(header, keyboard.Inert(formatting.GetWeekdayShort(time.Weekday((i+1)%7))))
	}
	kb.Row(header...)

	week := make([]models.InlineKeyboardButton, 0, 7)
	for _, cell := range cells {
		week = append(week, dayButton(cell, sel.Day))
		if len(week) == 7 {
			kb.Row(week...)
			week = make([]models.InlineKeyboardButton, 0, 7)
		}
	}

	durations := make([]models.InlineKeyboardButton, 0, len(DurationOptions))
	for _, h := range DurationOptions {
		text := "⏱ " + formatting.FormatHours(h)
		if h == sel.DurationHours {
			text = "✅ " + formatting.FormatHours(h)
		}
		durations = append(durations, keyboard.Button(text, SetDuration+strconv.FormatFloat(h, 'f', -1, 64)))
	}
	kb.Row(durations...)
	kb.Row(keyboard.Button("🔄 Refresh availability", RefreshAvailability))
	kb.AddBackCancel(Back+StepLevel, CancelForm)

	text := summary(d) + "\nSelect a date:"
	if d.Availability == nil {
		text += "\n<i>Availability settings could not be loaded, all future days are shown.</i>"
	}
	return Screen{Text: text, Keyboard: kb.Build()}
}

func dayButton(cell scheduling.DayCell, selected *model.Date) models.InlineKeyboardButton {
	switch {
	case !cell.InMonth:
		return keyboard.Inert(" ")
	case !cell.Selectable:
		return keyboard.Inert("·")
	}

	text := strconv.Itoa(cell.Date.Day())
	if selected != nil && selected.Equal(cell.Date.Time) {
		text = "[" + text + "]"
	}
	return keyboard.Button(text, SelectDay+cell.Date.String())
}

func canShowPrevMonth(year int, month time.Month, today model.Date) bool {
	return year > today.Year() || (year == today.Year() && month > today.Month())
}

func canShowNextMonth(year int, month time.Month, settings *model.AvailabilitySettings, today model.Date) bool {
	next := model.NewDate(time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC))
	if settings != nil && settings.MaximumAdvanceDays != nil {
		return !next.After(today.AddDays(*settings.MaximumAdvanceDays))
	}
	limit := model.NewDate(time.Date(today.Year(), today.Month()+maxMonthsAhead, 1, 0, 0, 0, 0, time.UTC))
	return next.Before(limit)
}

// BuildTimeScreen свободные и занятые времена выбранного дня
func BuildTimeScreen(d *state.Dialog) Screen {
	sel := d.Selection
	view := sel.Slots

	var sb strings.Builder
	sb.WriteString(summary(d))

	kb := keyboard.NewBuilder()
	if view.Empty() {
		sb.WriteString("\nNo available times on this day. Pick another day.")
	} else {
		fmt.Fprintf(&sb, "\n%s free. Select a start time (UTC):",
			formatting.PluralizeSlots(len(view.Options)-len(view.Conflicts())))
		if conflicts := view.Conflicts(); len(conflicts) > 0 {
			fmt.Fprintf(&sb, "\n⛔ %s overlap existing sessions.", strings.Join(conflicts, ", "))
		}

		buttons := make([]models.InlineKeyboardButton, 0, len(view.Options))
		for _, opt := range view.Options {
			switch {
			case opt.Conflict:
				buttons = append(buttons, keyboard.Inert("⛔ "+opt.Time))
			case opt.Time == sel.Time:
				buttons = append(buttons, keyboard.Button("✅ "+opt.Time, SelectTime+TimeArg(opt.Time)))
			default:
				buttons = append(buttons, keyboard.Button(opt.Time, SelectTime+TimeArg(opt.Time)))
			}
		}
		kb.Grid(4, buttons...)
	}
	kb.AddBackCancel(Back+StepCalendar, CancelForm)

	return Screen{Text: sb.String(), Keyboard: kb.Build()}
}

// BuildNotesScreen необязательные заметки, ввод следующим сообщением
func BuildNotesScreen(d *state.Dialog) Screen {
	kb := keyboard.NewBuilder().
		Row(keyboard.Button("Skip ➡️", SkipNotes)).
		AddBackCancel(Back+StepTime, CancelForm)

	return Screen{
		Text:     summary(d) + "\nSend notes for this session as a message, or skip.",
		Keyboard: kb.Build(),
	}
}

// BuildConfirmScreen итог формы. Кнопка создания только когда отправка разрешена
func BuildConfirmScreen(d *state.Dialog) Screen {
	sel := d.Selection
	var sb strings.Builder
	sb.WriteString(summary(d))

	if d.Tutor != nil {
		fmt.Fprintf(&sb, "💰 %s, total %s\n",
			formatting.FormatRate(d.Tutor.HourlyRate),
			formatting.FormatCost(d.Tutor.HourlyRate, sel.DurationHours))
	}

	kb := keyboard.NewBuilder()
	if err := sel.Validate(); err != nil {
		sb.WriteString("\n" + html.EscapeString(ErrorMessage(err)))
	} else {
		kb.Row(keyboard.Button("✅ Create session", Confirm))
	}
	kb.AddBackCancel(Back+StepNotes, CancelForm)

	return Screen{Text: sb.String(), Keyboard: kb.Build()}
}

// BuildSessionCreatedScreen сессия создана
func BuildSessionCreatedScreen(session *model.Session, d *state.Dialog) Screen {
	status := formatting.GetSessionStatusDisplay(session.Status)
	text := fmt.Sprintf("🎉 <b>Session #%d created</b>\n\n%s\n%s %s",
		session.ID,
		strings.TrimPrefix(summary(d), "<b>📝 New session</b>\n\n"),
		status.Emoji, status.Text,
	)
	return Screen{Text: text}
}

// BuildRejectedScreen сервер отклонил сессию; форма остаётся открытой
func BuildRejectedScreen(d *state.Dialog, err error) Screen {
	text := summary(d) + "\n" + html.EscapeString(ErrorMessage(err))
	kb := keyboard.NewBuilder()
	if SuggestsProfile(err) {
		text += "\n\nCheck the subjects and academic levels offered in your TutorNearby profile."
		kb.Row(keyboard.Button("📚 Change subject", Back+StepSubject))
	}
	kb.AddBackCancel(Back+StepNotes, CancelForm)
	return Screen{Text: text, Keyboard: kb.Build()}
}

// BuildWeekScreen список сессий недели
func BuildWeekScreen(sessions []model.Session, tutor *model.Tutor, weekStart model.Date) Screen {
	var sb strings.Builder
	weekEnd := weekStart.AddDays(6)
	fmt.Fprintf(&sb, "<b>🗓 %s to %s</b>\n\n", weekStart.Format("02 Jan"), weekEnd.Format("02 Jan 2006"))

	if len(sessions) == 0 {
		sb.WriteString("No sessions this week.")
	} else {
		for i := range sessions {
			sb.WriteString(formatting.FormatSessionLine(&sessions[i], tutor))
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "\nTotal: %s", formatting.PluralizeSessions(len(sessions)))
	}

	kb := keyboard.NewBuilder().Row(keyboard.WeekPagination(ViewWeek, weekStart.Time)...)
	return Screen{Text: sb.String(), Keyboard: kb.Build()}
}
