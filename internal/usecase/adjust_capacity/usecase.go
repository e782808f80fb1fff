package adjust_capacity

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// UseCase журнал ёмкости слотов.
// Локальное значение меняется только после подтверждения шлюза, каждое изменение попадает в историю.
type UseCase struct {
	state        ScheduleState
	gateway      ScheduleGateway
	timeProvider TimeProvider
	logger       Logger

	mu      sync.Mutex
	journal []domain.CapacityAdjustment
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(state ScheduleState, gateway ScheduleGateway, logger Logger) *UseCase {
	return &UseCase{
		state:        state,
		gateway:      gateway,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Apply изменяет ёмкость слота
func (uc *UseCase) Apply(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных, без обращения к шлюзу
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AdjustCapacity: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("AdjustCapacity: owner=%d, batch=%s, action=%s, amount=%d",
		req.OwnerID, req.BatchID, req.Action, req.Amount)

	// Снимок расписания со старой ёмкостью не должен дойти до шлюза после нашей записи
	release := uc.state.HoldSaves()
	defer release()

	// 2. Повторно разрешаем batch ID непосредственно перед вызовом шлюза
	ref, err := uc.state.ResolveBatch(req.BatchID)
	if err != nil {
		if errors.Is(err, domain.ErrSlotNotFound) {
			uc.logger.Warn("AdjustCapacity: batch=%s does not exist", req.BatchID)
			return nil, fmt.Errorf("%w: batch_id=%s", ErrSlotNotFound, req.BatchID)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if ref.Slot.Unlimited {
		uc.logger.Warn("AdjustCapacity: batch=%s has unlimited capacity", req.BatchID)
		return nil, fmt.Errorf("%w: batch_id=%s", ErrUnlimitedSlot, req.BatchID)
	}

	// 3. Ожидаемое значение (decrease ограничивается нулём)
	oldValue := ref.Slot.Capacity
	expected, err := domain.ApplyCapacityAction(oldValue, req.Action, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 4. Запись на стороне шлюза; при ошибке локальное состояние не трогаем
	result, err := uc.gateway.UpdateCapacity(ctx, req.OwnerID, ref.BatchID, req.Action, req.Amount, req.Actor)
	if err != nil {
		uc.logger.Error("AdjustCapacity: gateway failed for batch=%s: %v", ref.BatchID, err)
		return nil, fmt.Errorf("%w: %w", ErrGateway, err)
	}

	if result.NewToken != expected {
		uc.logger.Warn("AdjustCapacity: gateway confirmed %d for batch=%s, expected %d",
			result.NewToken, ref.BatchID, expected)
	}

	// 5. Фиксируем подтверждённое значение по постоянному ключу слота
	if err := uc.state.CommitCapacity(ref.Key, result.NewToken); err != nil {
		uc.logger.Error("AdjustCapacity: slot for batch=%s disappeared before commit: %v", ref.BatchID, err)
		if errors.Is(err, domain.ErrSlotNotFound) {
			return nil, fmt.Errorf("%w: slot was removed while the update was in flight: %v", ErrSlotNotFound, err)
		}
		return nil, fmt.Errorf("%w: failed to commit capacity: %v", ErrInternal, err)
	}

	// 6. Неизменяемая запись истории
	adjustment := domain.NewCapacityAdjustment(
		req.OwnerID,
		ref.BatchID,
		req.Action,
		oldValue,
		result.NewToken,
		req.Actor,
		uc.timeProvider.Now(),
	)

	uc.mu.Lock()
	uc.journal = append(uc.journal, adjustment)
	uc.mu.Unlock()

	uc.logger.Info("AdjustCapacity: batch=%s capacity %d -> %d", ref.BatchID, oldValue, result.NewToken)

	return &Response{NewValue: result.NewToken, Adjustment: adjustment}, nil
}

// History возвращает историю изменений ёмкости слота из шлюза, новые записи первыми
func (uc *UseCase) History(ctx context.Context, ownerID int64, batchID string) ([]domain.CapacityAdjustment, error) {
	if ownerID <= 0 {
		return nil, fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}
	if _, _, err := domain.ParseBatchID(batchID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	history, err := uc.gateway.FetchHistory(ctx, ownerID, batchID)
	if err != nil {
		uc.logger.Error("AdjustCapacity: failed to fetch history for batch=%s: %v", batchID, err)
		return nil, fmt.Errorf("%w: %w", ErrGateway, err)
	}

	out := append([]domain.CapacityAdjustment{}, history...)
	sortNewestFirst(out)
	return out, nil
}

// Recent возвращает изменения, выполненные в этой сессии для batch ID, новые первыми
func (uc *UseCase) Recent(batchID string) []domain.CapacityAdjustment {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	out := make([]domain.CapacityAdjustment, 0)
	for i := len(uc.journal) - 1; i >= 0; i-- {
		if uc.journal[i].BatchID == batchID {
			out = append(out, uc.journal[i])
		}
	}
	return out
}

func sortNewestFirst(records []domain.CapacityAdjustment) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].OccurredAt.After(records[j].OccurredAt)
	})
}
