package model

type SubjectRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Tutor профиль репетитора из API
type Tutor struct {
	ID             int64          `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Subjects       []SubjectRef   `json:"subjects"`
	AcademicLevels AcademicLevels `json:"academic_levels"`
	HourlyRate     float64        `json:"hourly_rate"`
}

// SubjectName возвращает название предмета по id
func (t *Tutor) SubjectName(id int64) string {
	for _, s := range t.Subjects {
		if s.ID == id {
			return s.Name
		}
	}
	return ""
}

// LevelLabel возвращает название уровня по id
func (t *Tutor) LevelLabel(id int64) string {
	for _, l := range t.AcademicLevels {
		if l.ID == id {
			return l.Label
		}
	}
	return ""
}
