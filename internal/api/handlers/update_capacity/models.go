package update_capacity

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedules/models"
)

// UpdateCapacityRequest HTTP request model
type UpdateCapacityRequest struct {
	Action string `json:"action" validate:"required,capacity_action"`
	Value  int    `json:"value" validate:"gt=0"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateCapacityRequest) ToServiceRequest(ownerID int64, batchID string, actor *string) *models.UpdateCapacityRequest {
	return &models.UpdateCapacityRequest{
		OwnerID: ownerID,
		BatchID: batchID,
		Action:  domain.CapacityAction(r.Action),
		Value:   r.Value,
		Actor:   actor,
	}
}

// AdjustmentResponse запись истории в ответе
type AdjustmentResponse struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      int64     `json:"owner_id"`
	BatchID      string    `json:"batch_id"`
	OldValue     int       `json:"old_value"`
	NewValue     int       `json:"new_value"`
	ActionType   string    `json:"action_type"`
	ChangeAmount int       `json:"change_amount"`
	CreatedAt    time.Time `json:"created_at"`
	Actor        *string   `json:"actor,omitempty"`
}

// FromDomain конвертирует доменную запись в HTTP модель
func FromDomain(a domain.CapacityAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:           a.ID,
		OwnerID:      a.OwnerID,
		BatchID:      a.BatchID,
		OldValue:     a.OldValue,
		NewValue:     a.NewValue,
		ActionType:   string(a.ActionType),
		ChangeAmount: a.ChangeAmount,
		CreatedAt:    a.OccurredAt,
		Actor:        a.Actor,
	}
}
