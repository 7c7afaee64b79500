package callbacktypes

import (
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/state"
	"github.com/Freeeeeet/tutornearby_bot/internal/service"
	"go.uber.org/zap"
)

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	UserService    *service.UserService
	AuthService    *service.AuthService
	PlannerService *service.PlannerService
	StateManager   *state.Manager
	Logger         *zap.Logger

	// DurationHours длительность новой сессии по умолчанию
	DurationHours float64
}
