package service

import "errors"

var (
	ErrNotLoggedIn      = errors.New("not logged in to TutorNearby")
	ErrInvalidToken     = errors.New("access token is not a TutorNearby token")
	ErrSubmitNotAllowed = errors.New("session cannot be submitted")
	ErrSessionRejected  = errors.New("session rejected by TutorNearby")
)

// RejectedError сервер отклонил создание сессии
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return ErrSessionRejected.Error()
	}
	return ErrSessionRejected.Error() + ": " + e.Message
}

func (e *RejectedError) Unwrap() error {
	return ErrSessionRejected
}
