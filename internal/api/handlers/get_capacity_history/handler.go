package get_capacity_history

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers"
	"github.com/m04kA/SMC-ScheduleService/internal/api/handlers/update_capacity"
	"github.com/m04kA/SMC-ScheduleService/pkg/validate"
)

const (
	msgInvalidOwnerID = "некорректный ID владельца"
	msgInvalidBatchID = "некорректный batch ID"
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

// Handle GET /api/v1/owners/{ownerId}/slots/{batchId}/history
// Пустая история не является ошибкой.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ownerID, err := strconv.ParseInt(vars["ownerId"], 10, 64)
	if err != nil || ownerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidOwnerID)
		return
	}

	batchID := vars["batchId"]
	if err := validate.Var(batchID, "batch_id"); err != nil {
		handlers.RespondBadRequest(w, msgInvalidBatchID)
		return
	}

	history, err := h.service.GetHistory(r.Context(), ownerID, batchID)
	if err != nil {
		h.logger.Error("GET /owners/{id}/slots/{batch}/history - Failed to get history: owner_id=%d, batch_id=%s, error=%v",
			ownerID, batchID, err)
		handlers.RespondInternalError(w)
		return
	}

	records := make([]update_capacity.AdjustmentResponse, 0, len(history))
	for _, a := range history {
		records = append(records, update_capacity.FromDomain(a))
	}

	handlers.RespondSuccess(w, records)
}
