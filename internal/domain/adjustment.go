package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CapacityAction действие над ёмкостью слота
type CapacityAction string

const (
	ActionSet      CapacityAction = "set"
	ActionIncrease CapacityAction = "increase"
	ActionDecrease CapacityAction = "decrease"
)

// Valid проверяет, что действие известно
func (a CapacityAction) Valid() bool {
	return a == ActionSet || a == ActionIncrease || a == ActionDecrease
}

// ParseCapacityAction разбирает действие без учёта регистра
func ParseCapacityAction(s string) (CapacityAction, error) {
	a := CapacityAction(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
	return a, nil
}

// ApplyCapacityAction вычисляет новое значение ёмкости.
// amount должен быть положительным для всех действий (set 0 не допускается).
// decrease ограничивается нулём снизу и никогда не отклоняется из-за превышения.
func ApplyCapacityAction(current int, action CapacityAction, amount int) (int, error) {
	if !action.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}

	switch action {
	case ActionSet:
		return amount, nil
	case ActionIncrease:
		return current + amount, nil
	default:
		if amount >= current {
			return 0, nil
		}
		return current - amount, nil
	}
}

// CapacityAdjustment неизменяемая запись истории изменения ёмкости
type CapacityAdjustment struct {
	ID           uuid.UUID
	OwnerID      int64
	BatchID      string
	OldValue     int
	NewValue     int
	ActionType   CapacityAction
	ChangeAmount int // NewValue - OldValue
	OccurredAt   time.Time
	Actor        *string
}

// NewCapacityAdjustment создаёт запись истории
func NewCapacityAdjustment(
	ownerID int64,
	batchID string,
	action CapacityAction,
	oldValue, newValue int,
	actor *string,
	occurredAt time.Time,
) CapacityAdjustment {
	return CapacityAdjustment{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		BatchID:      batchID,
		OldValue:     oldValue,
		NewValue:     newValue,
		ActionType:   action,
		ChangeAmount: newValue - oldValue,
		OccurredAt:   occurredAt,
		Actor:        actor,
	}
}
