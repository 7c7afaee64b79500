package common

import "github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/common/keyboard"

// Форматы callback data формы создания сессии
const (
	Noop = keyboard.Noop

	ToggleStudent = "ns_student:"  // ns_student:42
	StudentsDone  = "ns_students_done"
	SelectSubject = "ns_subject:"  // ns_subject:3
	SelectLevel   = "ns_level:"    // ns_level:5
	ShowMonth     = "ns_month:"    // ns_month:2024-12
	SelectDay     = "ns_day:"      // ns_day:2024-12-27
	SetDuration   = "ns_duration:" // ns_duration:1.5
	SelectTime    = "ns_time:"     // ns_time:1300
	SkipNotes     = "ns_notes_skip"
	Confirm       = "ns_confirm"
	Back          = "ns_back:" // ns_back:subject
	CancelForm    = "ns_cancel"
)

// Перечитать настройки доступности в обход кэша
const RefreshAvailability = "ns_refresh_availability"

// Шаги формы для кнопки "Back"
const (
	StepStudents = "students"
	StepSubject  = "subject"
	StepLevel    = "level"
	StepCalendar = "calendar"
	StepTime     = "time"
	StepNotes    = "notes"
)

// Просмотр недели сессий
const ViewWeek = "week:" // week:2024-12-23

// DurationOptions длительности, которые можно выбрать в календаре
var DurationOptions = []float64{0.5, 1, 1.5, 2}
