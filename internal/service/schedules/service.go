package schedules

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedules/models"
)

// Service сервис хранения расписаний и журнала ёмкости
type Service struct {
	scheduleRepo   ScheduleRepository
	adjustmentRepo AdjustmentRepository
	txManager      TransactionManager
	metrics        MetricsCollector
	timeProvider   TimeProvider
	logger         Logger
}

// NewService создает новый экземпляр сервиса расписаний.
// metrics может быть nil, если метрики выключены.
func NewService(
	scheduleRepo ScheduleRepository,
	adjustmentRepo AdjustmentRepository,
	txManager TransactionManager,
	metrics MetricsCollector,
	logger Logger,
) *Service {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Service{
		scheduleRepo:   scheduleRepo,
		adjustmentRepo: adjustmentRepo,
		txManager:      txManager,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// GetSchedule возвращает расписание владельца со всеми семью днями
func (s *Service) GetSchedule(ctx context.Context, ownerID int64) (domain.CanonicalSchedule, error) {
	if ownerID <= 0 {
		return nil, fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}

	stored, err := s.scheduleRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("GetSchedule: failed to load schedule for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: failed to load schedule: %v", ErrInternal, err)
	}

	for _, day := range domain.AllWeekDays() {
		if _, ok := stored[day.String()]; !ok {
			stored[day.String()] = domain.CanonicalDay{Slots: []domain.CanonicalSlot{}}
		}
	}

	return stored, nil
}

// SaveSchedule проверяет и сохраняет неделю целиком
func (s *Service) SaveSchedule(ctx context.Context, ownerID int64, schedule domain.CanonicalSchedule) error {
	s.logger.Info("SaveSchedule: owner=%d", ownerID)

	if ownerID <= 0 {
		return fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}
	if err := validateCanonical(schedule); err != nil {
		s.logger.Warn("SaveSchedule: validation failed for owner=%d: %v", ownerID, err)
		s.metrics.IncScheduleSave("invalid")
		return err
	}

	normalized := normalize(schedule)

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		stored, err := s.scheduleRepo.GetByOwner(ctx, ownerID)
		if err != nil && !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return err
		}
		keepStoredTokens(normalized, stored)
		return s.scheduleRepo.Replace(ctx, ownerID, normalized)
	})
	if err != nil {
		s.logger.Error("SaveSchedule: failed to save schedule for owner=%d: %v", ownerID, err)
		s.metrics.IncScheduleSave("error")
		return fmt.Errorf("%w: failed to save schedule: %v", ErrInternal, err)
	}

	s.metrics.IncScheduleSave("ok")
	return nil
}

// UpdateCapacity изменяет ёмкость слота и записывает историю в одной сериализуемой транзакции
func (s *Service) UpdateCapacity(ctx context.Context, req *models.UpdateCapacityRequest) (*models.UpdateCapacityResponse, error) {
	s.logger.Info("UpdateCapacity: owner=%d, batch=%s, action=%s, value=%d",
		req.OwnerID, req.BatchID, req.Action, req.Value)

	if req.OwnerID <= 0 {
		return nil, fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}
	if _, _, err := domain.ParseBatchID(req.BatchID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var resp models.UpdateCapacityResponse

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		slot, err := s.scheduleRepo.GetSlotForUpdate(ctx, req.OwnerID, req.BatchID)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: failed to lock slot: %v", ErrInternal, err)
		}

		if slot.Unlimited {
			return ErrUnlimitedSlot
		}

		newValue, err := domain.ApplyCapacityAction(slot.Token, req.Action, req.Value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		if err := s.scheduleRepo.UpdateToken(ctx, req.OwnerID, req.BatchID, newValue); err != nil {
			return fmt.Errorf("%w: failed to update token: %v", ErrInternal, err)
		}

		adjustment := domain.NewCapacityAdjustment(
			req.OwnerID,
			req.BatchID,
			req.Action,
			slot.Token,
			newValue,
			req.Actor,
			s.timeProvider.Now(),
		)
		if err := s.adjustmentRepo.Create(ctx, slot.SlotKey, adjustment); err != nil {
			return fmt.Errorf("%w: failed to record adjustment: %v", ErrInternal, err)
		}

		resp = models.UpdateCapacityResponse{NewToken: newValue, Adjustment: adjustment}
		return nil
	})
	if err != nil {
		s.metrics.IncCapacityAdjustment(string(req.Action), "error")
		if errors.Is(err, ErrInternal) {
			s.logger.Error("UpdateCapacity: owner=%d batch=%s: %v", req.OwnerID, req.BatchID, err)
		} else {
			s.logger.Warn("UpdateCapacity: owner=%d batch=%s rejected: %v", req.OwnerID, req.BatchID, err)
		}
		return nil, err
	}

	s.metrics.IncCapacityAdjustment(string(req.Action), "ok")
	s.logger.Info("UpdateCapacity: batch=%s token %d -> %d",
		req.BatchID, resp.Adjustment.OldValue, resp.NewToken)

	return &resp, nil
}

// GetHistory возвращает историю изменений ёмкости слота, новые записи первыми
func (s *Service) GetHistory(ctx context.Context, ownerID int64, batchID string) ([]domain.CapacityAdjustment, error) {
	if ownerID <= 0 {
		return nil, fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}
	if _, _, err := domain.ParseBatchID(batchID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// История привязана к слоту, а не к позиции: после удаления соседа batch ID указывает на другой слот
	stored, err := s.scheduleRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return []domain.CapacityAdjustment{}, nil
		}
		s.logger.Error("GetHistory: failed to load schedule for owner=%d: %v", ownerID, err)
		return nil, fmt.Errorf("%w: failed to load schedule: %v", ErrInternal, err)
	}
	slotKey, ok := slotKeyOf(stored, batchID)
	if !ok {
		return []domain.CapacityAdjustment{}, nil
	}

	history, err := s.adjustmentRepo.ListBySlotKey(ctx, ownerID, slotKey)
	if err != nil {
		s.logger.Error("GetHistory: owner=%d batch=%s: %v", ownerID, batchID, err)
		return nil, fmt.Errorf("%w: failed to load history: %v", ErrInternal, err)
	}

	return history, nil
}

func slotKeyOf(schedule domain.CanonicalSchedule, batchID string) (string, bool) {
	day, index, err := domain.ParseBatchID(batchID)
	if err != nil {
		return "", false
	}
	slots := schedule[day.String()].Slots
	if index >= len(slots) || slots[index].SlotKey == "" {
		return "", false
	}
	return slots[index].SlotKey, true
}
