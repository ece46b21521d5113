package handlers

import (
	"github.com/Zerohidz/tcdd-alarm-bot/internal/controller/state"
	"github.com/Zerohidz/tcdd-alarm-bot/internal/service"
	"go.uber.org/zap"
)

// Handlers bundles the dependencies of all command and dialog handlers.
type Handlers struct {
	userService       *service.UserService
	searchService     *service.SearchService
	allocationService *service.AllocationService
	alarmService      *service.AlarmService
	stationService    *service.StationService
	stateManager      *state.Manager
	countdowns        *CountdownManager
	logger            *zap.Logger
}

func NewHandlers(
	userService *service.UserService,
	searchService *service.SearchService,
	allocationService *service.AllocationService,
	alarmService *service.AlarmService,
	stationService *service.StationService,
	stateManager *state.Manager,
	countdowns *CountdownManager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:       userService,
		searchService:     searchService,
		allocationService: allocationService,
		alarmService:      alarmService,
		stationService:    stationService,
		stateManager:      stateManager,
		countdowns:        countdowns,
		logger:            logger,
	}
}
