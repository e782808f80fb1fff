package models

import "github.com/m04kA/SMC-ScheduleService/internal/domain"

// UpdateCapacityRequest запрос на изменение ёмкости слота
type UpdateCapacityRequest struct {
	OwnerID int64
	BatchID string
	Action  domain.CapacityAction
	Value   int
	Actor   *string
}

// UpdateCapacityResponse результат изменения ёмкости
type UpdateCapacityResponse struct {
	NewToken   int
	Adjustment domain.CapacityAdjustment
}
