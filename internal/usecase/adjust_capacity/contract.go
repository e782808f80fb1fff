package adjust_capacity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/schedulegateway"
)

// ScheduleState локальное состояние расписания, в котором живут слоты
type ScheduleState interface {
	// ResolveBatch разрешает batch ID по текущим позициям слотов
	ResolveBatch(batchID string) (domain.SlotRef, error)
	// CommitCapacity записывает подтверждённую ёмкость слоту с постоянным ключом
	CommitCapacity(key uuid.UUID, value int) error
	// HoldSaves дожидается отправок расписания в шлюз и не пускает новые до release
	HoldSaves() (release func())
}

// ScheduleGateway интерфейс клиента шлюза расписаний
type ScheduleGateway interface {
	UpdateCapacity(
		ctx context.Context,
		ownerID int64,
		batchID string,
		action domain.CapacityAction,
		value int,
		actor *string,
	) (*schedulegateway.UpdateCapacityResult, error)
	FetchHistory(ctx context.Context, ownerID int64, batchID string) ([]domain.CapacityAdjustment, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
