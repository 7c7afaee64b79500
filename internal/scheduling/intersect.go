package scheduling

import "github.com/Freeeeeet/tutornearby_bot/internal/model"

// HiredIntersection предметы и уровни, оплаченные всеми выбранными учениками.
// Enabled=false когда ученики не выбраны: поля предмета и уровня выключены.
type HiredIntersection struct {
	Enabled  bool
	Subjects []int64
	Levels   []int64
}

// Empty пересечение не даёт создать сессию
func (h HiredIntersection) Empty() bool {
	return len(h.Subjects) == 0 || len(h.Levels) == 0
}

// HasSubject входит ли предмет в пересечение
func (h HiredIntersection) HasSubject(id int64) bool {
	return contains(h.Subjects, id)
}

// HasLevel входит ли уровень в пересечение
func (h HiredIntersection) HasLevel(id int64) bool {
	return contains(h.Levels, id)
}

// IntersectHired пересчитывает пересечение с нуля для всего набора учеников.
// Ученик без данных в hired даёт пустое множество.
func IntersectHired(studentIDs []int64, hired map[int64]model.HiredSubjectsAndLevels) HiredIntersection {
	if len(studentIDs) == 0 {
		return HiredIntersection{}
	}

	first := hired[studentIDs[0]]
	subjects := unique(first.HiredSubjects)
	levels := unique(first.HiredAcademicLevels)

	for _, id := range studentIDs[1:] {
		h := hired[id]
		subjects = intersect(subjects, h.HiredSubjects)
		levels = intersect(levels, h.HiredAcademicLevels)
	}

	return HiredIntersection{
		Enabled:  true,
		Subjects: subjects,
		Levels:   levels,
	}
}

// PreferredSubjectsOverlap предметы репетитора, которые предпочитают все выбранные ученики.
// Только для отображения, на создание сессии не влияет.
func PreferredSubjectsOverlap(students []model.Student, tutorSubjects []model.SubjectRef) []model.SubjectRef {
	if len(students) == 0 {
		return nil
	}

	var overlap []model.SubjectRef
	for _, subject := range tutorSubjects {
		preferredByAll := true
		for i := range students {
			if !contains(students[i].PreferredSubjects, subject.ID) {
				preferredByAll = false
				break
			}
		}
		if preferredByAll {
			overlap = append(overlap, subject)
		}
	}
	return overlap
}

// intersect сохраняет порядок base
func intersect(base, other []int64) []int64 {
	set := make(map[int64]struct{}, len(other))
	for _, id := range other {
		set[id] = struct{}{}
	}
	out := make([]int64, 0, len(base))
	for _, id := range base {
		if _, ok := set[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

func unique(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
