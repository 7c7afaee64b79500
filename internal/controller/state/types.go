package state

import (
	"github.com/Freeeeeet/tutornearby_bot/internal/model"
	"github.com/Freeeeeet/tutornearby_bot/internal/scheduling"
)

// UserState текущий шаг диалога, который ждёт текстовый ввод
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	StateSessionNotes UserState = "session_notes" // Ждём заметки к сессии
)

// Dialog данные формы создания сессии, живут до /cancel или успешной отправки
type Dialog struct {
	State        UserState
	Selection    *scheduling.Selection
	Tutor        *model.Tutor
	Students     []model.Student
	Availability *model.AvailabilitySettings // nil = календарь без ограничений
	ChatID       int64
	MessageID    int // сообщение с формой

	// Submitting форма отправляется; второй запрос на создание не уходит
	Submitting bool
}

// Student ученик репетитора по id
func (d *Dialog) Student(id int64) (model.Student, bool) {
	for _, s := range d.Students {
		if s.ID == id {
			return s, true
		}
	}
	return model.Student{}, false
}

// SelectedStudents выбранные ученики в порядке выбора
func (d *Dialog) SelectedStudents() []model.Student {
	out := make([]model.Student, 0, len(d.Selection.StudentIDs))
	for _, id := range d.Selection.StudentIDs {
		if s, ok := d.Student(id); ok {
			out = append(out, s)
		}
	}
	return out
}

func (d *Dialog) clone() *Dialog {
	c := *d
	if d.Selection != nil {
		c.Selection = d.Selection.Clone()
	}
	return &c
}
