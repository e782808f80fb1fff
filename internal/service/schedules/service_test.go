package schedules

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-ScheduleService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ScheduleService/internal/service/schedules/models"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
)

type memoryScheduleRepo struct {
	mu        sync.Mutex
	schedules map[int64]domain.CanonicalSchedule
	replaces  int
}

func (r *memoryScheduleRepo) GetByOwner(ctx context.Context, ownerID int64) (domain.CanonicalSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.schedules[ownerID]
	if !ok {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	out := make(domain.CanonicalSchedule, len(stored))
	for k, v := range stored {
		out[k] = domain.CanonicalDay{Enabled: v.Enabled, Slots: append([]domain.CanonicalSlot(nil), v.Slots...)}
	}
	return out, nil
}

func (r *memoryScheduleRepo) Replace(ctx context.Context, ownerID int64, schedule domain.CanonicalSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaces++
	r.schedules[ownerID] = schedule
	return nil
}

func (r *memoryScheduleRepo) find(ownerID int64, batchID string) (*domain.CanonicalSlot, error) {
	day, index, err := domain.ParseBatchID(batchID)
	if err != nil {
		return nil, scheduleRepo.ErrSlotNotFound
	}
	d, ok := r.schedules[ownerID][day.String()]
	if !ok || index >= len(d.Slots) {
		return nil, scheduleRepo.ErrSlotNotFound
	}
	return &d.Slots[index], nil
}

func (r *memoryScheduleRepo) GetSlotForUpdate(ctx context.Context, ownerID int64, batchID string) (*domain.CanonicalSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, err := r.find(ownerID, batchID)
	if err != nil {
		return nil, err
	}
	copied := *slot
	return &copied, nil
}

func (r *memoryScheduleRepo) UpdateToken(ctx context.Context, ownerID int64, batchID string, token int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, err := r.find(ownerID, batchID)
	if err != nil {
		return err
	}
	slot.Token = token
	return nil
}

type memoryAdjustmentRepo struct {
	mu      sync.Mutex
	records []domain.CapacityAdjustment
	keys    []string
}

func (r *memoryAdjustmentRepo) Create(ctx context.Context, slotKey string, a domain.CapacityAdjustment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, a)
	r.keys = append(r.keys, slotKey)
	return nil
}

func (r *memoryAdjustmentRepo) ListBySlotKey(ctx context.Context, ownerID int64, slotKey string) ([]domain.CapacityAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.CapacityAdjustment, 0)
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.records[i].OwnerID == ownerID && r.keys[i] == slotKey {
			out = append(out, r.records[i])
		}
	}
	return out, nil
}

type inlineTxManager struct {
	calls int
}

func (m *inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type countingMetrics struct {
	adjustments map[string]int
	saves       map[string]int
}

func (m *countingMetrics) IncCapacityAdjustment(action, result string) {
	m.adjustments[action+":"+result]++
}

func (m *countingMetrics) IncScheduleSave(result string) {
	m.saves[result]++
}

type stepClock struct {
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

type fixture struct {
	svc         *Service
	schedules   *memoryScheduleRepo
	adjustments *memoryAdjustmentRepo
	tx          *inlineTxManager
	metrics     *countingMetrics
}

func newFixture() *fixture {
	f := &fixture{
		schedules:   &memoryScheduleRepo{schedules: map[int64]domain.CanonicalSchedule{}},
		adjustments: &memoryAdjustmentRepo{},
		tx:          &inlineTxManager{},
		metrics:     &countingMetrics{adjustments: map[string]int{}, saves: map[string]int{}},
	}
	f.svc = NewService(f.schedules, f.adjustments, f.tx, f.metrics, logger.Nop())
	f.svc.timeProvider = &stepClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	return f
}

func mondaySchedule() domain.CanonicalSchedule {
	return domain.CanonicalSchedule{
		"Monday": {Enabled: true, Slots: []domain.CanonicalSlot{
			{BatchID: "stale", From: "09:00", To: "12:00", Token: 5},
			{From: "13:00", To: "17:00", BreakFrom: "14:00", BreakTo: "14:30", Token: 3},
		}},
		"Sun": {Enabled: false},
	}
}

func TestSaveAndGetSchedule(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.SaveSchedule(ctx, 7, mondaySchedule()))
	assert.Equal(t, 1, f.tx.calls)
	assert.Equal(t, 1, f.metrics.saves["ok"])

	got, err := f.svc.GetSchedule(ctx, 7)
	require.NoError(t, err)

	assert.Len(t, got, domain.DaysInWeek)
	require.Len(t, got["Mon"].Slots, 2)
	assert.Equal(t, "1:0", got["Mon"].Slots[0].BatchID)
	assert.Equal(t, "1:1", got["Mon"].Slots[1].BatchID)
	assert.False(t, got["Sat"].Enabled)
	assert.Empty(t, got["Sat"].Slots)
}

func TestGetScheduleNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.GetSchedule(context.Background(), 7)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestSaveScheduleRejectsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		schedule domain.CanonicalSchedule
	}{
		{
			name: "end before start",
			schedule: domain.CanonicalSchedule{"Mon": {Enabled: true, Slots: []domain.CanonicalSlot{
				{From: "12:00", To: "09:00", Token: 1},
			}}},
		},
		{
			name:     "unknown day",
			schedule: domain.CanonicalSchedule{"Funday": {Enabled: false}},
		},
		{
			name: "malformed time",
			schedule: domain.CanonicalSchedule{"Mon": {Enabled: true, Slots: []domain.CanonicalSlot{
				{From: "25:00", To: "26:00", Token: 1},
			}}},
		},
		{
			name: "negative token",
			schedule: domain.CanonicalSchedule{"Tue": {Enabled: true, Slots: []domain.CanonicalSlot{
				{From: "09:00", To: "10:00", Token: -1},
			}}},
		},
		{
			name:     "enabled day without slots",
			schedule: domain.CanonicalSchedule{"Wed": {Enabled: true}},
		},
		{
			name: "single digit hour",
			schedule: domain.CanonicalSchedule{"Mon": {Enabled: true, Slots: []domain.CanonicalSlot{
				{From: "9:00", To: "10:00", Token: 1},
			}}},
		},
		{
			name: "day sent twice",
			schedule: domain.CanonicalSchedule{
				"Mon":    {Enabled: true, Slots: []domain.CanonicalSlot{{From: "09:00", To: "10:00", Token: 1}}},
				"monday": {Enabled: false},
			},
		},
		{
			name: "malformed slot key",
			schedule: domain.CanonicalSchedule{"Mon": {Enabled: true, Slots: []domain.CanonicalSlot{
				{SlotKey: "abc", From: "09:00", To: "10:00", Token: 1},
			}}},
		},
		{
			name: "slot key used twice",
			schedule: domain.CanonicalSchedule{"Mon": {Enabled: true, Slots: []domain.CanonicalSlot{
				{SlotKey: "5f0c6a1e-8d55-4f5b-9a39-0d3f4c6b2a10", From: "09:00", To: "10:00", Token: 1},
				{SlotKey: "5f0c6a1e-8d55-4f5b-9a39-0d3f4c6b2a10", From: "11:00", To: "12:00", Token: 1},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			err := f.svc.SaveSchedule(context.Background(), 7, tt.schedule)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, 0, f.schedules.replaces)
		})
	}
}

func TestUpdateCapacityChainIntegrity(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.svc.SaveSchedule(ctx, 7, mondaySchedule()))

	steps := []struct {
		action domain.CapacityAction
		value  int
		want   int
	}{
		{domain.ActionIncrease, 4, 9},
		{domain.ActionDecrease, 20, 0},
		{domain.ActionSet, 12, 12},
		{domain.ActionDecrease, 2, 10},
	}

	for _, s := range steps {
		resp, err := f.svc.UpdateCapacity(ctx, &models.UpdateCapacityRequest{
			OwnerID: 7, BatchID: "1:0", Action: s.action, Value: s.value,
		})
		require.NoError(t, err)
		assert.Equal(t, s.want, resp.NewToken)
	}

	history, err := f.svc.GetHistory(ctx, 7, "1:0")
	require.NoError(t, err)
	require.Len(t, history, len(steps))

	for i := 0; i < len(history)-1; i++ {
		assert.Equal(t, history[i+1].NewValue, history[i].OldValue)
		assert.True(t, history[i].OccurredAt.After(history[i+1].OccurredAt))
	}
	assert.Equal(t, 5, history[len(history)-1].OldValue)
	assert.Equal(t, -9, history[2].ChangeAmount)

	slot, err := f.schedules.GetSlotForUpdate(ctx, 7, "1:0")
	require.NoError(t, err)
	assert.Equal(t, 10, slot.Token)
	assert.Equal(t, 2, f.metrics.adjustments["decrease:ok"])
}

func TestUpdateCapacityRejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	schedule := mondaySchedule()
	mon := schedule["Monday"]
	mon.Slots[1].Unlimited = true
	mon.Slots[1].Token = 0
	schedule["Monday"] = mon
	require.NoError(t, f.svc.SaveSchedule(ctx, 7, schedule))

	_, err := f.svc.UpdateCapacity(ctx, &models.UpdateCapacityRequest{OwnerID: 7, BatchID: "1:0", Action: domain.ActionSet, Value: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.UpdateCapacity(ctx, &models.UpdateCapacityRequest{OwnerID: 7, BatchID: "4:0", Action: domain.ActionSet, Value: 3})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = f.svc.UpdateCapacity(ctx, &models.UpdateCapacityRequest{OwnerID: 7, BatchID: "1:1", Action: domain.ActionIncrease, Value: 3})
	assert.ErrorIs(t, err, ErrUnlimitedSlot)

	_, err = f.svc.UpdateCapacity(ctx, &models.UpdateCapacityRequest{OwnerID: 7, BatchID: "x", Action: domain.ActionIncrease, Value: 3})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Empty(t, f.adjustments.records)
	assert.Equal(t, 2, f.metrics.adjustments["set:error"])
}

func TestSaveScheduleAssignsSlotKeys(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.svc.SaveSchedule(ctx, 7, mondaySchedule()))

	got, err := f.svc.GetSchedule(ctx, 7)
	require.NoError(t, err)
	first, second := got["Mon"].Slots[0].SlotKey, got["Mon"].Slots[1].SlotKey
	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second)

	// Повторное сохранение без ключей сопоставляется по позиции и сохраняет ключи
	require.NoError(t, f.svc.SaveSchedule(ctx, 7, mondaySchedule()))
	got, err = f.svc.GetSchedule(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, first, got["Mon"].Slots[0].SlotKey)
}

func TestSaveScheduleDoesNotOverwriteLedgerCapacity(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.svc.SaveSchedule(ctx, 7, mondaySchedule()))

	// Снимок редактора снят до изменения ёмкости
	stale, err := f.svc.GetSchedule(ctx, 7)
	require.NoError(t, err)

	_, err = f.svc.UpdateCapacity(ctx, &models.UpdateCapacityRequest{
		OwnerID: 7, BatchID: "1:0", Action: domain.ActionIncrease, Value: 5,
	})
	require.NoError(t, err)

	mon := stale["Mon"]
	mon.Slots = append(mon.Slots, domain.CanonicalSlot{From: "18:00", To: "19:00", Token: 7})
	stale["Mon"] = mon
	require.NoError(t, f.svc.SaveSchedule(ctx, 7, stale))

	_, err = f.svc.UpdateCapacity(ctx, &models.UpdateCapacityRequest{
		OwnerID: 7, BatchID: "1:0", Action: domain.ActionIncrease, Value: 1,
	})
	require.NoError(t, err)

	got, err := f.svc.GetSchedule(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 11, got["Mon"].Slots[0].Token)
	assert.Equal(t, 7, got["Mon"].Slots[2].Token, "new slot takes its capacity from the payload")

	history, err := f.svc.GetHistory(ctx, 7, "1:0")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, history[1].NewValue, history[0].OldValue)
	assert.Equal(t, 10, history[0].OldValue)
}

func TestHistoryFollowsSlotAfterRemoval(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.svc.SaveSchedule(ctx, 7, mondaySchedule()))

	_, err := f.svc.UpdateCapacity(ctx, &models.UpdateCapacityRequest{
		OwnerID: 7, BatchID: "1:1", Action: domain.ActionSet, Value: 8,
	})
	require.NoError(t, err)

	// Первый слот удалён, второй становится "1:0" и сохраняет свою ёмкость
	stored, err := f.svc.GetSchedule(ctx, 7)
	require.NoError(t, err)
	mon := stored["Mon"]
	mon.Slots = mon.Slots[1:]
	stored["Mon"] = mon
	require.NoError(t, f.svc.SaveSchedule(ctx, 7, stored))

	got, err := f.svc.GetSchedule(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got["Mon"].Slots, 1)
	assert.Equal(t, 8, got["Mon"].Slots[0].Token)

	history, err := f.svc.GetHistory(ctx, 7, "1:0")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "1:1", history[0].BatchID)
	assert.Equal(t, 8, history[0].NewValue)

	history, err = f.svc.GetHistory(ctx, 7, "1:1")
	require.NoError(t, err)
	assert.Empty(t, history)
}
