package save_schedule

import "github.com/m04kA/SMC-ScheduleService/internal/domain"

// SaveScheduleRequest HTTP request model
type SaveScheduleRequest struct {
	Days domain.CanonicalSchedule `json:"days" validate:"required"`
}
