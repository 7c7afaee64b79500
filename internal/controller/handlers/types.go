package handlers

import (
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/tutornearby_bot/internal/controller/state"
	"github.com/Freeeeeet/tutornearby_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService    *service.UserService
	authService    *service.AuthService
	plannerService *service.PlannerService
	stateManager   *state.Manager
	logger         *zap.Logger

	// общие зависимости формы, с которыми работают и callbacks
	flow *callbacktypes.Handler
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(flow *callbacktypes.Handler) *Handlers {
	return &Handlers{
		userService:    flow.UserService,
		authService:    flow.AuthService,
		plannerService: flow.PlannerService,
		stateManager:   flow.StateManager,
		logger:         flow.Logger,
		flow:           flow,
	}
}
