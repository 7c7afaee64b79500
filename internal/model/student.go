package model

// Student ученик с точки зрения планировщика (только чтение)
type Student struct {
	ID                int64          `json:"id"`
	FirstName         string         `json:"first_name"`
	LastName          string         `json:"last_name"`
	PreferredSubjects []int64        `json:"preferred_subjects"`
	AcademicLevel     AcademicLevels `json:"academic_level"`
}

// DisplayName имя для кнопок и сообщений
func (s *Student) DisplayName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// HiredSubjectsAndLevels оплаченные учеником предметы и уровни у конкретного репетитора
type HiredSubjectsAndLevels struct {
	HiredSubjects       []int64 `json:"hired_subjects"`
	HiredAcademicLevels []int64 `json:"hired_academic_levels"`
}
