package edit_schedule

import (
	"context"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/schedulegateway"
)

// ScheduleGateway интерфейс клиента шлюза расписаний
type ScheduleGateway interface {
	FetchSchedule(ctx context.Context, ownerID int64) (domain.CanonicalSchedule, error)
	SaveSchedule(ctx context.Context, ownerID int64, schedule domain.CanonicalSchedule) (*schedulegateway.SaveResult, error)
}

// Confirmer спрашивает оператора подтверждение разрушающего действия
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// AlwaysConfirm подтверждает любое действие (неинтерактивные клиенты)
type AlwaysConfirm struct{}

func (AlwaysConfirm) Confirm(ctx context.Context, message string) (bool, error) {
	return true, nil
}
