package schedulegateway

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// Envelope общий конверт ответов шлюза
type Envelope struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	NewToken *int            `json:"newToken,omitempty"`
}

// ScheduleBody тело запроса и ответа с расписанием
type ScheduleBody struct {
	Days domain.CanonicalSchedule `json:"days"`
}

// UpdateCapacityRequest тело запроса изменения ёмкости
type UpdateCapacityRequest struct {
	Action string `json:"action"`
	Value  int    `json:"value"`
}

// HistoryRecord запись истории в формате шлюза
type HistoryRecord struct {
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

// ToDomain переводит запись в доменную модель
func (r HistoryRecord) ToDomain() domain.CapacityAdjustment {
	return domain.CapacityAdjustment{
		ID:           r.ID,
		OwnerID:      r.OwnerID,
		BatchID:      r.BatchID,
		OldValue:     r.OldValue,
		NewValue:     r.NewValue,
		ActionType:   domain.CapacityAction(r.ActionType),
		ChangeAmount: r.ChangeAmount,
		OccurredAt:   r.CreatedAt,
		Actor:        r.Actor,
	}
}

// HistoryRecordFromDomain переводит доменную запись в формат шлюза
func HistoryRecordFromDomain(a domain.CapacityAdjustment) HistoryRecord {
	return HistoryRecord{
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

// SaveResult результат сохранения расписания
type SaveResult struct {
	Message string
}

// UpdateCapacityResult подтверждённое шлюзом значение ёмкости
type UpdateCapacityResult struct {
	NewToken int
	Message  string
}
