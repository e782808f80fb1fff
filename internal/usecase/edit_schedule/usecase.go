package edit_schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/schedulegateway"
	"github.com/m04kA/SMC-ScheduleService/pkg/optimistic"
)

// UseCase сессия редактирования недельного расписания одного владельца.
// Правки применяются локально сразу, валидное расписание отправляется в шлюз в фоне.
type UseCase struct {
	gateway   ScheduleGateway
	confirmer Confirmer
	logger    Logger

	// saves: отправки расписания держат RLock до ответа шлюза, журнал ёмкости берёт Lock.
	// Порядок захвата: saves, затем mu.
	saves sync.RWMutex

	mu       sync.Mutex
	ownerID  int64
	schedule *domain.WeeklySchedule

	pushes   sync.WaitGroup
	pushMu   sync.Mutex
	pushErrs []error
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(gateway ScheduleGateway, confirmer Confirmer, logger Logger) *UseCase {
	if confirmer == nil {
		confirmer = AlwaysConfirm{}
	}
	return &UseCase{
		gateway:   gateway,
		confirmer: confirmer,
		logger:    logger,
	}
}

// Open загружает расписание владельца; если его ещё нет, начинает с пустой недели
func (uc *UseCase) Open(ctx context.Context, ownerID int64) error {
	if ownerID <= 0 {
		return fmt.Errorf("%w: ownerID must be positive", ErrInvalidInput)
	}

	uc.logger.Info("EditSchedule: opening session for owner=%d", ownerID)

	schedule := domain.NewWeeklySchedule()
	payload, err := uc.gateway.FetchSchedule(ctx, ownerID)
	switch {
	case err == nil:
		schedule = domain.FromCanonicalForm(payload)
	case errors.Is(err, schedulegateway.ErrScheduleNotFound):
		uc.logger.Info("EditSchedule: owner=%d has no schedule yet, starting empty", ownerID)
	default:
		uc.logger.Error("EditSchedule: failed to fetch schedule for owner=%d: %v", ownerID, err)
		return fmt.Errorf("%w: failed to fetch schedule: %w", ErrGateway, err)
	}

	uc.mu.Lock()
	uc.ownerID = ownerID
	uc.schedule = schedule
	uc.mu.Unlock()

	return nil
}

// ToggleDay переключает рабочий день; слоты выключенного дня сохраняются
func (uc *UseCase) ToggleDay(ctx context.Context, day domain.WeekDay) (bool, error) {
	var enabled bool
	err := uc.mutate(ctx, func(w *domain.WeeklySchedule) error {
		var err error
		enabled, err = w.ToggleDay(day)
		return err
	})
	return enabled, err
}

// AddSlot добавляет слот в конец дня
func (uc *UseCase) AddSlot(ctx context.Context, day domain.WeekDay) (domain.SlotRef, error) {
	var ref domain.SlotRef
	err := uc.mutate(ctx, func(w *domain.WeeklySchedule) error {
		var err error
		ref, err = w.AddSlot(day)
		return err
	})
	return ref, err
}

// RemoveSlot удаляет слот после подтверждения оператора.
// Возвращает false без ошибки, если оператор отказался.
func (uc *UseCase) RemoveSlot(ctx context.Context, day domain.WeekDay, index int) (bool, error) {
	slot, err := uc.slotAt(day, index)
	if err != nil {
		return false, err
	}

	message := fmt.Sprintf("Remove slot %s (%s - %s)?", domain.AddressOf(day, index), slot.From, slot.To)
	confirmed, err := uc.confirmer.Confirm(ctx, message)
	if err != nil {
		return false, fmt.Errorf("%w: confirmation failed: %v", ErrInternal, err)
	}
	if !confirmed {
		uc.logger.Info("EditSchedule: removal of slot %s declined", domain.AddressOf(day, index))
		return false, nil
	}

	err = uc.mutate(ctx, func(w *domain.WeeklySchedule) error {
		// Пока оператор подтверждал, позиция слота могла измениться
		ref, ok := w.Locate(slot.Key)
		if !ok {
			return fmt.Errorf("%w: slot was removed concurrently", domain.ErrSlotNotFound)
		}
		_, err := w.RemoveSlot(ref.Day, ref.Index)
		return err
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// UpdateSlotField изменяет одно поле слота
func (uc *UseCase) UpdateSlotField(ctx context.Context, day domain.WeekDay, index int, field domain.SlotField, value string) error {
	return uc.mutate(ctx, func(w *domain.WeeklySchedule) error {
		return w.UpdateSlotField(day, index, field, value)
	})
}

// SetSlotAvailability включает или выключает слот синхронно: изменение применяется сразу
// и откатывается, если шлюз не сохранил расписание.
func (uc *UseCase) SetSlotAvailability(ctx context.Context, day domain.WeekDay, index int, enabled bool) error {
	uc.saves.RLock()
	defer uc.saves.RUnlock()

	var (
		key      uuid.UUID
		previous bool
		ownerID  int64
		snapshot domain.CanonicalSchedule
	)

	apply := func() error {
		uc.mu.Lock()
		defer uc.mu.Unlock()

		if uc.schedule == nil {
			return ErrNotOpened
		}
		slot, err := uc.schedule.SlotAt(day, index)
		if err != nil {
			return mapDomainError(err)
		}
		key, previous, ownerID = slot.Key, slot.Enabled, uc.ownerID

		if err := uc.schedule.UpdateSlotField(day, index, domain.FieldEnabled, fmt.Sprintf("%t", enabled)); err != nil {
			return mapDomainError(err)
		}
		snapshot = uc.schedule.ToCanonicalForm()
		return nil
	}

	remote := func(ctx context.Context) error {
		if _, err := uc.gateway.SaveSchedule(ctx, ownerID, snapshot); err != nil {
			uc.logger.Error("EditSchedule: failed to save availability for owner=%d: %v", ownerID, err)
			return fmt.Errorf("%w: %w", ErrGateway, err)
		}
		return nil
	}

	revert := func() error {
		uc.mu.Lock()
		defer uc.mu.Unlock()

		ref, ok := uc.schedule.Locate(key)
		if !ok {
			return fmt.Errorf("%w: slot was removed before revert", ErrSlotNotFound)
		}
		return uc.schedule.UpdateSlotField(ref.Day, ref.Index, domain.FieldEnabled, fmt.Sprintf("%t", previous))
	}

	return optimistic.Do(ctx, apply, remote, revert)
}

// Validate проверяет текущее расписание
func (uc *UseCase) Validate() domain.ScheduleValidation {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.schedule == nil {
		return domain.ValidateSchedule(domain.NewWeeklySchedule())
	}
	return domain.ValidateSchedule(uc.schedule)
}

// Schedule возвращает копию текущего расписания
func (uc *UseCase) Schedule() *domain.WeeklySchedule {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.schedule == nil {
		return domain.NewWeeklySchedule()
	}
	return uc.schedule.Clone()
}

// Submit сохраняет форму целиком.
// Любая ошибка валидации блокирует сохранение. Перед финальной записью дожидается фоновых
// отправок и возвращает их ошибки в результате.
func (uc *UseCase) Submit(ctx context.Context) (*SubmitResult, error) {
	uc.saves.RLock()
	defer uc.saves.RUnlock()

	uc.mu.Lock()
	if uc.schedule == nil {
		uc.mu.Unlock()
		return nil, ErrNotOpened
	}
	validation := domain.ValidateSchedule(uc.schedule)
	ownerID := uc.ownerID
	snapshot := uc.schedule.ToCanonicalForm()
	uc.mu.Unlock()

	if !validation.IsValid() {
		uc.logger.Warn("EditSchedule: submit blocked by validation for owner=%d", ownerID)
		return nil, fmt.Errorf("%w: %w", ErrValidation, validation.Err())
	}

	uc.pushes.Wait()
	pushFailures := uc.drainPushErrors()
	if pushFailures != nil {
		uc.logger.Warn("EditSchedule: background saves failed for owner=%d: %v", ownerID, pushFailures)
	}

	res, err := uc.gateway.SaveSchedule(ctx, ownerID, snapshot)
	if err != nil {
		uc.logger.Error("EditSchedule: final save failed for owner=%d: %v", ownerID, err)
		return nil, errors.Join(fmt.Errorf("%w: %w", ErrGateway, err), pushFailures)
	}

	uc.logger.Info("EditSchedule: schedule saved for owner=%d", ownerID)

	return &SubmitResult{Message: res.Message, PushFailures: pushFailures}, nil
}

// Wait дожидается завершения фоновых отправок
func (uc *UseCase) Wait() {
	uc.pushes.Wait()
}

// HoldSaves дожидается отправок расписания, уже ушедших в шлюз, и не даёт начать новые до вызова release.
// Снимок с ёмкостью, снятый до изменения в журнале, не может дойти до шлюза после него.
func (uc *UseCase) HoldSaves() (release func()) {
	uc.saves.Lock()
	return uc.saves.Unlock
}

// ResolveBatch разрешает batch ID по текущему состоянию сессии (для журнала ёмкости)
func (uc *UseCase) ResolveBatch(batchID string) (domain.SlotRef, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.schedule == nil {
		return domain.SlotRef{}, ErrNotOpened
	}
	return uc.schedule.ResolveBatch(batchID)
}

// CommitCapacity записывает подтверждённую шлюзом ёмкость слоту с ключом key
func (uc *UseCase) CommitCapacity(key uuid.UUID, value int) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.schedule == nil {
		return ErrNotOpened
	}
	return uc.schedule.SetCapacity(key, value)
}

// mutate применяет правку и, если расписание валидно, отправляет снимок в фоне
func (uc *UseCase) mutate(ctx context.Context, fn func(w *domain.WeeklySchedule) error) error {
	uc.saves.RLock()

	uc.mu.Lock()
	if uc.schedule == nil {
		uc.mu.Unlock()
		uc.saves.RUnlock()
		return ErrNotOpened
	}
	if err := fn(uc.schedule); err != nil {
		uc.mu.Unlock()
		uc.saves.RUnlock()
		return mapDomainError(err)
	}
	valid := domain.ValidateSchedule(uc.schedule).IsValid()
	ownerID := uc.ownerID
	snapshot := uc.schedule.ToCanonicalForm()
	uc.mu.Unlock()

	if !valid {
		uc.saves.RUnlock()
		return nil
	}
	uc.push(ctx, ownerID, snapshot)
	return nil
}

// push отправляет снимок без ожидания результата; ошибка запоминается до Submit.
// Вызывающий держит saves.RLock, горутина отпускает его после ответа шлюза.
func (uc *UseCase) push(ctx context.Context, ownerID int64, snapshot domain.CanonicalSchedule) {
	ctx = context.WithoutCancel(ctx)

	uc.pushes.Add(1)
	go func() {
		defer uc.pushes.Done()
		defer uc.saves.RUnlock()

		if _, err := uc.gateway.SaveSchedule(ctx, ownerID, snapshot); err != nil {
			uc.logger.Warn("EditSchedule: background save failed for owner=%d: %v", ownerID, err)
			uc.pushMu.Lock()
			uc.pushErrs = append(uc.pushErrs, err)
			uc.pushMu.Unlock()
		}
	}()
}

func (uc *UseCase) drainPushErrors() error {
	uc.pushMu.Lock()
	defer uc.pushMu.Unlock()

	if len(uc.pushErrs) == 0 {
		return nil
	}
	err := fmt.Errorf("%w: %w", ErrPushFailed, errors.Join(uc.pushErrs...))
	uc.pushErrs = nil
	return err
}

func (uc *UseCase) slotAt(day domain.WeekDay, index int) (domain.Slot, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.schedule == nil {
		return domain.Slot{}, ErrNotOpened
	}
	slot, err := uc.schedule.SlotAt(day, index)
	if err != nil {
		return domain.Slot{}, mapDomainError(err)
	}
	return slot, nil
}

func mapDomainError(err error) error {
	switch {
	case errors.Is(err, domain.ErrSlotNotFound), errors.Is(err, domain.ErrSlotIndexOutOfRange):
		return fmt.Errorf("%w: %v", ErrSlotNotFound, err)
	case errors.Is(err, domain.ErrInvalidWeekDay),
		errors.Is(err, domain.ErrUnknownSlotField),
		errors.Is(err, domain.ErrInvalidFieldValue):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return err
	}
}
