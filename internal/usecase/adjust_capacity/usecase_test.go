package adjust_capacity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/internal/integrations/schedulegateway"
	"github.com/m04kA/SMC-ScheduleService/pkg/logger"
)

type scheduleState struct {
	mu       sync.Mutex
	schedule *domain.WeeklySchedule
	holds    int
	holding  bool
}

func (s *scheduleState) HoldSaves() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holds++
	s.holding = true
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.holding = false
	}
}

func (s *scheduleState) isHolding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holding
}

func (s *scheduleState) ResolveBatch(batchID string) (domain.SlotRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule.ResolveBatch(batchID)
}

func (s *scheduleState) CommitCapacity(key uuid.UUID, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule.SetCapacity(key, value)
}

func (s *scheduleState) removeSlot(day domain.WeekDay, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.schedule.RemoveSlot(day, index)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) UpdateCapacity(
	ctx context.Context,
	ownerID int64,
	batchID string,
	action domain.CapacityAction,
	value int,
	actor *string,
) (*schedulegateway.UpdateCapacityResult, error) {
	args := m.Called(ctx, ownerID, batchID, action, value, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedulegateway.UpdateCapacityResult), args.Error(1)
}

func (m *MockGateway) FetchHistory(ctx context.Context, ownerID int64, batchID string) ([]domain.CapacityAdjustment, error) {
	args := m.Called(ctx, ownerID, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CapacityAdjustment), args.Error(1)
}

// ledgerGateway хранит ёмкости и вычисляет их так же, как шлюз
type ledgerGateway struct {
	mu     sync.Mutex
	tokens map[string]int
}

func (g *ledgerGateway) UpdateCapacity(
	ctx context.Context,
	ownerID int64,
	batchID string,
	action domain.CapacityAction,
	value int,
	actor *string,
) (*schedulegateway.UpdateCapacityResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	next, err := domain.ApplyCapacityAction(g.tokens[batchID], action, value)
	if err != nil {
		return nil, &schedulegateway.RemoteError{Status: 400, Message: err.Error()}
	}
	g.tokens[batchID] = next
	return &schedulegateway.UpdateCapacityResult{NewToken: next}, nil
}

func (g *ledgerGateway) FetchHistory(ctx context.Context, ownerID int64, batchID string) ([]domain.CapacityAdjustment, error) {
	return nil, nil
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

// newState создаёт расписание с двумя слотами в понедельник (ёмкость 5 и 10)
func newState(t *testing.T) *scheduleState {
	t.Helper()
	w := domain.NewWeeklySchedule()
	require.NoError(t, w.SetDayEnabled(domain.Monday, true))
	first, err := w.AddSlot(domain.Monday)
	require.NoError(t, err)
	require.NoError(t, w.SetCapacity(first.Key, 5))
	_, err = w.AddSlot(domain.Monday)
	require.NoError(t, err)
	second, err := w.ResolveBatch("1:1")
	require.NoError(t, err)
	require.NoError(t, w.SetCapacity(second.Key, 10))
	return &scheduleState{schedule: w}
}

func newUseCase(state ScheduleState, gateway ScheduleGateway) *UseCase {
	uc := NewUseCase(state, gateway, logger.Nop())
	uc.timeProvider = &fixedClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	return uc
}

func capacityOf(t *testing.T, s *scheduleState, batchID string) int {
	t.Helper()
	ref, err := s.ResolveBatch(batchID)
	require.NoError(t, err)
	return ref.Slot.Capacity
}

func TestApplyIncrease(t *testing.T) {
	state := newState(t)
	gw := new(MockGateway)
	actor := "operator-1"
	gw.On("UpdateCapacity", mock.Anything, int64(7), "1:0", domain.ActionIncrease, 3, &actor).
		Return(&schedulegateway.UpdateCapacityResult{NewToken: 8}, nil)

	uc := newUseCase(state, gw)
	resp, err := uc.Apply(context.Background(), &Request{
		OwnerID: 7, BatchID: "1:0", Action: domain.ActionIncrease, Amount: 3, Actor: &actor,
	})
	require.NoError(t, err)

	assert.Equal(t, 8, resp.NewValue)
	assert.Equal(t, 5, resp.Adjustment.OldValue)
	assert.Equal(t, 8, resp.Adjustment.NewValue)
	assert.Equal(t, 3, resp.Adjustment.ChangeAmount)
	assert.Equal(t, domain.ActionIncrease, resp.Adjustment.ActionType)
	assert.Equal(t, 8, capacityOf(t, state, "1:0"))
	assert.Equal(t, 10, capacityOf(t, state, "1:1"))

	recent := uc.Recent("1:0")
	require.Len(t, recent, 1)
	assert.Equal(t, resp.Adjustment.ID, recent[0].ID)
	gw.AssertExpectations(t)
}

func TestApplyRejectsInvalidInputWithoutRemoteCall(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
	}{
		{name: "set zero", req: &Request{OwnerID: 7, BatchID: "1:0", Action: domain.ActionSet, Amount: 0}},
		{name: "negative amount", req: &Request{OwnerID: 7, BatchID: "1:0", Action: domain.ActionIncrease, Amount: -2}},
		{name: "unknown action", req: &Request{OwnerID: 7, BatchID: "1:0", Action: "double", Amount: 2}},
		{name: "malformed batch", req: &Request{OwnerID: 7, BatchID: "monday", Action: domain.ActionSet, Amount: 2}},
		{name: "missing owner", req: &Request{BatchID: "1:0", Action: domain.ActionSet, Amount: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newState(t)
			gw := new(MockGateway)
			uc := newUseCase(state, gw)

			_, err := uc.Apply(context.Background(), tt.req)

			assert.ErrorIs(t, err, ErrInvalidInput)
			gw.AssertNotCalled(t, "UpdateCapacity")
			assert.Zero(t, state.holds)
			assert.Equal(t, 5, capacityOf(t, state, "1:0"))
			assert.Empty(t, uc.Recent("1:0"))
		})
	}
}

func TestApplyHoldsScheduleSavesUntilCommit(t *testing.T) {
	state := newState(t)
	gw := new(MockGateway)
	gw.On("UpdateCapacity", mock.Anything, int64(7), "1:1", domain.ActionIncrease, 2, (*string)(nil)).
		Run(func(args mock.Arguments) {
			assert.True(t, state.isHolding())
		}).
		Return(&schedulegateway.UpdateCapacityResult{NewToken: 12}, nil)

	uc := newUseCase(state, gw)
	_, err := uc.Apply(context.Background(), &Request{OwnerID: 7, BatchID: "1:1", Action: domain.ActionIncrease, Amount: 2})
	require.NoError(t, err)

	assert.Equal(t, 1, state.holds)
	assert.False(t, state.isHolding())
	gw.AssertExpectations(t)
}

func TestApplyUnknownBatchFailsLocally(t *testing.T) {
	state := newState(t)
	gw := new(MockGateway)
	uc := newUseCase(state, gw)

	_, err := uc.Apply(context.Background(), &Request{OwnerID: 7, BatchID: "1:5", Action: domain.ActionSet, Amount: 2})

	assert.ErrorIs(t, err, ErrSlotNotFound)
	gw.AssertNotCalled(t, "UpdateCapacity")
}

func TestApplyUnlimitedSlot(t *testing.T) {
	state := newState(t)
	require.NoError(t, state.schedule.UpdateSlotField(domain.Monday, 0, domain.FieldUnlimited, "true"))
	gw := new(MockGateway)
	uc := newUseCase(state, gw)

	_, err := uc.Apply(context.Background(), &Request{OwnerID: 7, BatchID: "1:0", Action: domain.ActionIncrease, Amount: 2})

	assert.ErrorIs(t, err, ErrUnlimitedSlot)
	gw.AssertNotCalled(t, "UpdateCapacity")
}

func TestApplyGatewayFailureLeavesStateUntouched(t *testing.T) {
	state := newState(t)
	gw := new(MockGateway)
	gw.On("UpdateCapacity", mock.Anything, int64(7), "1:0", domain.ActionDecrease, 2, (*string)(nil)).
		Return(nil, &schedulegateway.RemoteError{Status: 409, Message: "slot is locked"})

	uc := newUseCase(state, gw)
	_, err := uc.Apply(context.Background(), &Request{OwnerID: 7, BatchID: "1:0", Action: domain.ActionDecrease, Amount: 2})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGateway)
	assert.ErrorIs(t, err, schedulegateway.ErrRemote)
	msg, ok := schedulegateway.RemoteMessage(err)
	require.True(t, ok)
	assert.Equal(t, "slot is locked", msg)

	assert.Equal(t, 5, capacityOf(t, state, "1:0"))
	assert.Empty(t, uc.Recent("1:0"))
}

func TestApplyDecreaseClampsAtZero(t *testing.T) {
	state := newState(t)
	gw := &ledgerGateway{tokens: map[string]int{"1:0": 5}}
	uc := newUseCase(state, gw)

	resp, err := uc.Apply(context.Background(), &Request{OwnerID: 7, BatchID: "1:0", Action: domain.ActionDecrease, Amount: 9})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.NewValue)
	assert.Equal(t, -5, resp.Adjustment.ChangeAmount)
	assert.Equal(t, 0, capacityOf(t, state, "1:0"))
}

func TestApplyRemovalDuringFlightDoesNotTouchOtherSlot(t *testing.T) {
	state := newState(t)
	gw := new(MockGateway)
	gw.On("UpdateCapacity", mock.Anything, int64(7), "1:0", domain.ActionSet, 42, (*string)(nil)).
		Run(func(args mock.Arguments) {
			// Оператор удалил слот, пока запрос был в пути: "1:1" сдвинулся на "1:0"
			state.removeSlot(domain.Monday, 0)
		}).
		Return(&schedulegateway.UpdateCapacityResult{NewToken: 42}, nil)

	uc := newUseCase(state, gw)
	_, err := uc.Apply(context.Background(), &Request{OwnerID: 7, BatchID: "1:0", Action: domain.ActionSet, Amount: 42})

	assert.ErrorIs(t, err, ErrSlotNotFound)
	assert.Equal(t, 10, capacityOf(t, state, "1:0"))
	assert.Empty(t, uc.Recent("1:0"))
}

func TestApplyChainIntegrity(t *testing.T) {
	state := newState(t)
	gw := &ledgerGateway{tokens: map[string]int{"1:0": 5}}
	uc := newUseCase(state, gw)

	steps := []struct {
		action domain.CapacityAction
		amount int
	}{
		{domain.ActionIncrease, 3},
		{domain.ActionDecrease, 10},
		{domain.ActionSet, 7},
		{domain.ActionDecrease, 2},
		{domain.ActionIncrease, 1},
		{domain.ActionSet, 0},
		{domain.ActionDecrease, 100},
	}

	for _, s := range steps {
		_, _ = uc.Apply(context.Background(), &Request{OwnerID: 7, BatchID: "1:0", Action: s.action, Amount: s.amount})
	}

	recent := uc.Recent("1:0")
	require.Len(t, recent, 6)

	// Recent возвращает новые записи первыми
	for i := 0; i < len(recent)-1; i++ {
		newer, older := recent[i], recent[i+1]
		assert.Equal(t, older.NewValue, newer.OldValue)
		assert.True(t, newer.OccurredAt.After(older.OccurredAt))
	}
	for _, r := range recent {
		assert.GreaterOrEqual(t, r.NewValue, 0)
		assert.Equal(t, r.NewValue-r.OldValue, r.ChangeAmount)
	}
	assert.Equal(t, 5, recent[len(recent)-1].OldValue)
	assert.Equal(t, recent[0].NewValue, capacityOf(t, state, "1:0"))
}

func TestHistorySortsNewestFirst(t *testing.T) {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	older := domain.CapacityAdjustment{ID: uuid.New(), BatchID: "1:0", OccurredAt: base}
	newer := domain.CapacityAdjustment{ID: uuid.New(), BatchID: "1:0", OccurredAt: base.Add(time.Hour)}

	gw := new(MockGateway)
	gw.On("FetchHistory", mock.Anything, int64(7), "1:0").
		Return([]domain.CapacityAdjustment{older, newer}, nil)

	uc := newUseCase(newState(t), gw)
	history, err := uc.History(context.Background(), 7, "1:0")
	require.NoError(t, err)

	require.Len(t, history, 2)
	assert.Equal(t, newer.ID, history[0].ID)
	assert.Equal(t, older.ID, history[1].ID)
}

func TestHistoryEmptyAndFailure(t *testing.T) {
	gw := new(MockGateway)
	gw.On("FetchHistory", mock.Anything, int64(7), "2:0").Return(nil, nil)
	gw.On("FetchHistory", mock.Anything, int64(7), "3:0").Return(nil, errors.New("timeout"))

	uc := newUseCase(newState(t), gw)

	history, err := uc.History(context.Background(), 7, "2:0")
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = uc.History(context.Background(), 7, "3:0")
	assert.ErrorIs(t, err, ErrGateway)
}
