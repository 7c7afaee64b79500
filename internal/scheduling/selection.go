package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/google/uuid"
)

var (
	ErrNoStudents             = errors.New("no students selected")
	ErrEmptyHiredIntersection = errors.New("selected students share no hired subject or level")
	ErrNoSubject              = errors.New("subject is not selected")
	ErrNoLevel                = errors.New("academic level is not selected")
	ErrNoDate                 = errors.New("session date is not selected")
	ErrNoTime                 = errors.New("session time is not selected")
	ErrSlotConflict           = errors.New("selected time overlaps an existing session")
	ErrSlotUnknown            = errors.New("selected time is not offered for this day")
)

// Selection состояние формы создания сессии. Живёт с начала диалога
// до ухода со страницы или успешной отправки.
type Selection struct {
	DraftID       uuid.UUID
	TutorID       int64
	StudentIDs    []int64
	Subject       int64
	AcademicLevel int64
	Year          int
	Month         time.Month
	Day           *model.Date
	Time          string // HH:mm
	DurationHours float64
	Notes         string

	Hired HiredIntersection
	Slots SlotView

	// Поколения входных данных для асинхронных загрузок. Ответ, загруженный
	// для старого поколения, отбрасывается: побеждает последний выбор.
	StudentsGen uint64 // набор учеников -> пересечение предметов
	DayGen      uint64 // день и длительность -> слоты
}

// NewSelection начинает выбор с текущего месяца
func NewSelection(tutorID int64, durationHours float64, today model.Date) *Selection {
	return &Selection{
		DraftID:       uuid.New(),
		TutorID:       tutorID,
		Year:          today.Year(),
		Month:         today.Month(),
		DurationHours: durationHours,
	}
}

// Duration длительность сессии
func (s *Selection) Duration() time.Duration {
	return model.HoursToDuration(s.DurationHours)
}

// HasStudent выбран ли ученик
func (s *Selection) HasStudent(id int64) bool {
	return contains(s.StudentIDs, id)
}

// ToggleStudent добавляет или убирает ученика. Пересечение сбрасывается
// до следующего полного пересчёта.
func (s *Selection) ToggleStudent(id int64) uint64 {
	if s.HasStudent(id) {
		out := s.StudentIDs[:0:0]
		for _, v := range s.StudentIDs {
			if v != id {
				out = append(out, v)
			}
		}
		s.StudentIDs = out
	} else {
		s.StudentIDs = append(append([]int64(nil), s.StudentIDs...), id)
	}
	s.Hired = HiredIntersection{Enabled: len(s.StudentIDs) > 0}
	s.StudentsGen++
	return s.StudentsGen
}

// ApplyHired принимает пересечение, посчитанное для поколения gen, и сбрасывает
// предмет и уровень, если они больше не общие. Устаревший ответ игнорируется.
func (s *Selection) ApplyHired(gen uint64, h HiredIntersection) bool {
	if gen != s.StudentsGen {
		return false
	}
	s.Hired = h
	if !h.HasSubject(s.Subject) {
		s.Subject = 0
	}
	if !h.HasLevel(s.AcademicLevel) {
		s.AcademicLevel = 0
	}
	return true
}

// SelectSubject выбирает предмет из пересечения
func (s *Selection) SelectSubject(id int64) error {
	if !s.Hired.HasSubject(id) {
		return fmt.Errorf("subject %d: %w", id, ErrEmptyHiredIntersection)
	}
	s.Subject = id
	return nil
}

// SelectLevel выбирает уровень из пересечения
func (s *Selection) SelectLevel(id int64) error {
	if !s.Hired.HasLevel(id) {
		return fmt.Errorf("academic level %d: %w", id, ErrEmptyHiredIntersection)
	}
	s.AcademicLevel = id
	return nil
}

// ShowMonth переключает отображаемый месяц (month может выходить за 1..12)
func (s *Selection) ShowMonth(year int, month time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	s.Year, s.Month = t.Year(), t.Month()
}

// SelectDay выбирает день, сбрасывая время и слоты
func (s *Selection) SelectDay(day model.Date) uint64 {
	s.Day = &day
	s.Year, s.Month = day.Year(), day.Month()
	s.Time = ""
	s.Slots = SlotView{Day: day, Duration: s.Duration()}
	s.DayGen++
	return s.DayGen
}

// SetDuration меняет длительность; слоты нужно пересчитать
func (s *Selection) SetDuration(hours float64) uint64 {
	s.DurationHours = hours
	s.Time = ""
	s.Slots = SlotView{}
	if s.Day != nil {
		s.Slots.Day = *s.Day
	}
	s.Slots.Duration = s.Duration()
	s.DayGen++
	return s.DayGen
}

// ApplySlots принимает слоты, посчитанные для поколения gen. Устаревший ответ игнорируется.
func (s *Selection) ApplySlots(gen uint64, view SlotView) bool {
	if gen != s.DayGen {
		return false
	}
	s.Slots = view
	if opt, ok := view.Option(s.Time); !ok || opt.Conflict {
		s.Time = ""
	}
	return true
}

// SelectTime выбирает свободное время из рассчитанных слотов
func (s *Selection) SelectTime(hhmm string) error {
	opt, ok := s.Slots.Option(hhmm)
	if !ok {
		return ErrSlotUnknown
	}
	if opt.Conflict {
		return ErrSlotConflict
	}
	s.Time = hhmm
	return nil
}

// SetNotes сохраняет заметки к сессии
func (s *Selection) SetNotes(notes string) {
	s.Notes = notes
}

// Validate возвращает первую причину, по которой отправка запрещена
func (s *Selection) Validate() error {
	switch {
	case len(s.StudentIDs) == 0:
		return ErrNoStudents
	case s.Hired.Empty():
		return ErrEmptyHiredIntersection
	case s.Subject == 0:
		return ErrNoSubject
	case s.AcademicLevel == 0:
		return ErrNoLevel
	case !s.Hired.HasSubject(s.Subject), !s.Hired.HasLevel(s.AcademicLevel):
		return ErrEmptyHiredIntersection
	case s.Day == nil:
		return ErrNoDate
	case s.Time == "":
		return ErrNoTime
	}

	opt, ok := s.Slots.Option(s.Time)
	if !ok {
		return ErrSlotUnknown
	}
	if opt.Conflict {
		return ErrSlotConflict
	}
	return nil
}

// CanSubmit разрешена ли кнопка отправки
func (s *Selection) CanSubmit() bool {
	return s.Validate() == nil
}

// SessionStart время начала сессии в UTC
func (s *Selection) SessionStart() (time.Time, error) {
	if s.Day == nil {
		return time.Time{}, ErrNoDate
	}
	t, err := time.Parse(TimeLayout, s.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse session time: %w", err)
	}
	return time.Date(s.Day.Year(), s.Day.Month(), s.Day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// Request собирает тело POST /sessions; nil и ошибка, если отправка запрещена
func (s *Selection) Request(hourlyRate float64) (*model.CreateSessionRequest, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	start, err := s.SessionStart()
	if err != nil {
		return nil, err
	}
	return &model.CreateSessionRequest{
		TutorID:       s.TutorID,
		StudentIDs:    append([]int64(nil), s.StudentIDs...),
		Subject:       s.Subject,
		AcademicLevel: s.AcademicLevel,
		SessionDate:   start,
		DurationHours: s.DurationHours,
		HourlyRate:    hourlyRate,
		Notes:         s.Notes,
	}, nil
}

// Clone глубокая копия для чтения вне блокировки
func (s *Selection) Clone() *Selection {
	c := *s
	c.StudentIDs = append([]int64(nil), s.StudentIDs...)
	c.Hired.Subjects = append([]int64(nil), s.Hired.Subjects...)
	c.Hired.Levels = append([]int64(nil), s.Hired.Levels...)
	c.Slots.Options = append([]SlotOption(nil), s.Slots.Options...)
	if s.Day != nil {
		day := *s.Day
		c.Day = &day
	}
	return &c
}
