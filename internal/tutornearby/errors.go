package tutornearby

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError ответ TutorNearby API с кодом не из диапазона 2xx
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tutornearby api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("tutornearby api: status %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized токен отклонён даже после обновления
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsNotFound ресурс отсутствует
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsClientError ошибка 4xx, которую пользователь может исправить сам
func IsClientError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
