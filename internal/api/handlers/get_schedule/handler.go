package get_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedules"
)

const (
	msgInvalidOwnerID = "некорректный ID владельца"
	msgNotFound       = "расписание не найдено"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/owners/{ownerId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(mux.Vars(r)["ownerId"], 10, 64)
	if err != nil || ownerID <= 0 {
		h.logger.Warn("GET /owners/{id}/schedule - Invalid owner ID: %v", mux.Vars(r)["ownerId"])
		handlers.RespondBadRequest(w, msgInvalidOwnerID)
		return
	}

	days, err := h.service.GetSchedule(r.Context(), ownerID)
	if err != nil {
		if errors.Is(err, schedules.ErrScheduleNotFound) {
			h.logger.Info("GET /owners/{id}/schedule - Schedule not found: owner_id=%d", ownerID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /owners/{id}/schedule - Failed to get schedule: owner_id=%d, error=%v", ownerID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondSuccess(w, ScheduleResponse{Days: days})
}
