package get_schedule

import "github.com/m04kA/SMC-ScheduleService/internal/domain"

// ScheduleResponse HTTP response model
type ScheduleResponse struct {
	Days domain.CanonicalSchedule `json:"days"`
}
