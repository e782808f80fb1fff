package update_capacity

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/middleware"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedules"
	"github.com/m04kA/SMC-ScheduleService/pkg/validate"
)

const (
	msgInvalidOwnerID     = "некорректный ID владельца"
	msgInvalidBatchID     = "некорректный batch ID"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSlotNotFound       = "слот не найден"
	msgUnlimited          = "у слота неограниченная ёмкость"
	msgUpdated            = "ёмкость обновлена"
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

// Handle POST /api/v1/owners/{ownerId}/slots/{batchId}/token
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ownerID, err := strconv.ParseInt(vars["ownerId"], 10, 64)
	if err != nil || ownerID <= 0 {
		h.logger.Warn("POST /owners/{id}/slots/{batch}/token - Invalid owner ID: %v", vars["ownerId"])
		handlers.RespondBadRequest(w, msgInvalidOwnerID)
		return
	}

	batchID := vars["batchId"]
	if err := validate.Var(batchID, "batch_id"); err != nil {
		h.logger.Warn("POST /owners/{id}/slots/{batch}/token - Invalid batch ID: %q", batchID)
		handlers.RespondBadRequest(w, msgInvalidBatchID)
		return
	}

	var req UpdateCapacityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /owners/{id}/slots/{batch}/token - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if err := validate.Struct(req); err != nil {
		h.logger.Warn("POST /owners/{id}/slots/{batch}/token - Invalid request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.UpdateCapacity(r.Context(), req.ToServiceRequest(ownerID, batchID, middleware.ActorFromContext(r.Context())))
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrSlotNotFound):
			h.logger.Warn("POST /owners/{id}/slots/{batch}/token - Slot not found: owner_id=%d, batch_id=%s", ownerID, batchID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, schedules.ErrUnlimitedSlot):
			handlers.RespondConflict(w, msgUnlimited)

		case errors.Is(err, schedules.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /owners/{id}/slots/{batch}/token - Failed to update capacity: owner_id=%d, batch_id=%s, error=%v",
				ownerID, batchID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	newToken := result.NewToken
	handlers.RespondJSON(w, http.StatusOK, handlers.Envelope{
		Success:  true,
		Message:  msgUpdated,
		Data:     FromDomain(result.Adjustment),
		NewToken: &newToken,
	})
}
