package schedules

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetByOwner(ctx context.Context, ownerID int64) (domain.CanonicalSchedule, error)
	Replace(ctx context.Context, ownerID int64, schedule domain.CanonicalSchedule) error
	GetSlotForUpdate(ctx context.Context, ownerID int64, batchID string) (*domain.CanonicalSlot, error)
	UpdateToken(ctx context.Context, ownerID int64, batchID string, token int) error
}

// AdjustmentRepository интерфейс репозитория истории ёмкости (записи привязаны к slot_key)
type AdjustmentRepository interface {
	Create(ctx context.Context, slotKey string, adjustment domain.CapacityAdjustment) error
	ListBySlotKey(ctx context.Context, ownerID int64, slotKey string) ([]domain.CapacityAdjustment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsCollector счётчики бизнес-операций
type MetricsCollector interface {
	IncCapacityAdjustment(action, result string)
	IncScheduleSave(result string)
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
	return time.Now().UTC()
}

type nopMetrics struct{}

func (nopMetrics) IncCapacityAdjustment(action, result string) {}
func (nopMetrics) IncScheduleSave(result string)               {}
