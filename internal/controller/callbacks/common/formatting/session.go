package formatting

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
)

// FormatSessionLine одна строка списка сессий
func FormatSessionLine(s *model.Session, tutor *model.Tutor) string {
	start, end := s.Interval()
	status := GetSessionStatusDisplay(s.Status)

	subject := ""
	if tutor != nil {
		subject = tutor.SubjectName(s.Subject)
	}
	if subject == "" {
		subject = fmt.Sprintf("Subject #%d", s.Subject)
	}

	return fmt.Sprintf("%s %s %s, %s (%s)",
		status.Emoji,
		start.UTC().Format("Mon 02 Jan"),
		FormatTimeRange(start, end),
		html.EscapeString(subject),
		PluralizeStudents(len(s.StudentIDs)),
	)
}

// FormatNames имена через запятую
func FormatNames(students []model.Student) string {
	names := make([]string, 0, len(students))
	for i := range students {
		names = append(names, html.EscapeString(students[i].DisplayName()))
	}
	return strings.Join(names, ", ")
}

// FormatSubjects названия предметов через запятую
func FormatSubjects(subjects []model.SubjectRef) string {
	names := make([]string, 0, len(subjects))
	for _, s := range subjects {
		names = append(names, html.EscapeString(s.Name))
	}
	return strings.Join(names, ", ")
}
