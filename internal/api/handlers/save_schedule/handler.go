package save_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedules"
	"github.com/m04kA/SMC-ScheduleService/pkg/validate"
)

const (
	msgInvalidOwnerID     = "некорректный ID владельца"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSaved              = "расписание сохранено"
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

// Handle PUT /api/v1/owners/{ownerId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ownerID, err := strconv.ParseInt(mux.Vars(r)["ownerId"], 10, 64)
	if err != nil || ownerID <= 0 {
		h.logger.Warn("PUT /owners/{id}/schedule - Invalid owner ID: %v", mux.Vars(r)["ownerId"])
		handlers.RespondBadRequest(w, msgInvalidOwnerID)
		return
	}

	var req SaveScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /owners/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := validate.Struct(req); err != nil {
		h.logger.Warn("PUT /owners/{id}/schedule - Invalid request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	if err := h.service.SaveSchedule(r.Context(), ownerID, req.Days); err != nil {
		if errors.Is(err, schedules.ErrInvalidInput) {
			h.logger.Warn("PUT /owners/{id}/schedule - Invalid schedule: owner_id=%d, error=%v", ownerID, err)
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("PUT /owners/{id}/schedule - Failed to save schedule: owner_id=%d, error=%v", ownerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /owners/{id}/schedule - Schedule saved: owner_id=%d", ownerID)
	handlers.RespondJSON(w, http.StatusOK, handlers.Envelope{Success: true, Message: msgSaved})
}
