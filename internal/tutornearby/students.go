package tutornearby

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Freeeeeet/tutornearby_bot/internal/model"
)

// GetHiredSubjectsAndLevels что ученик оплатил у репетитора
func (c *Client) GetHiredSubjectsAndLevels(ctx context.Context, auth Auth, studentID, tutorID int64) (*model.HiredSubjectsAndLevels, error) {
	var hired model.HiredSubjectsAndLevels
	path := fmt.Sprintf("/hired-subjects-and-levels/%d/%d", studentID, tutorID)
	if err := c.do(ctx, auth, http.MethodGet, path, nil, nil, &hired); err != nil {
		return nil, fmt.Errorf("get hired subjects: %w", err)
	}
	return &hired, nil
}

// GetTutor загружает профиль репетитора
func (c *Client) GetTutor(ctx context.Context, auth Auth, tutorID int64) (*model.Tutor, error) {
	var tutor model.Tutor
	path := fmt.Sprintf("/tutors/%d", tutorID)
	if err := c.do(ctx, auth, http.MethodGet, path, nil, nil, &tutor); err != nil {
		return nil, fmt.Errorf("get tutor: %w", err)
	}
	return &tutor, nil
}

// ListStudents ученики, нанявшие репетитора
func (c *Client) ListStudents(ctx context.Context, auth Auth, tutorID int64) ([]model.Student, error) {
	var students []model.Student
	path := fmt.Sprintf("/tutors/%d/students", tutorID)
	if err := c.do(ctx, auth, http.MethodGet, path, nil, nil, &students); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}
