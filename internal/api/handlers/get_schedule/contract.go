package get_schedule

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type ScheduleService interface {
	GetSchedule(ctx context.Context, ownerID int64) (domain.CanonicalSchedule, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
