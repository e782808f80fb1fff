package get_capacity_history

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

type ScheduleService interface {
	GetHistory(ctx context.Context, ownerID int64, batchID string) ([]domain.CapacityAdjustment, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
