package formatting

import "fmt"

func plural(count int, one, many string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, one)
	}
	return fmt.Sprintf("%d %s", count, many)
}

// PluralizeStudents 1 student, 2 students
func PluralizeStudents(count int) string {
	return plural(count, "student", "students")
}

// PluralizeSessions 1 session, 2 sessions
func PluralizeSessions(count int) string {
	return plural(count, "session", "sessions")
}

// PluralizeSlots 1 slot, 2 slots
func PluralizeSlots(count int) string {
	return plural(count, "slot", "slots")
}
