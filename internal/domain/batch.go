package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// AddressOf возвращает позиционный batch ID слота: "<dayIndex>:<slotIndex>".
// ID не является постоянной идентичностью: при удалении слота все последующие слоты дня получают новые ID.
func AddressOf(day WeekDay, slotIndex int) string {
	return fmt.Sprintf("%d:%d", day.Index(), slotIndex)
}

// ParseBatchID разбирает batch ID на день и позицию слота
func ParseBatchID(batchID string) (WeekDay, int, error) {
	dayPart, slotPart, found := strings.Cut(batchID, ":")
	if !found {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidBatchID, batchID)
	}

	dayIdx, err := strconv.Atoi(dayPart)
	if err != nil || !WeekDay(dayIdx).Valid() {
		return 0, 0, fmt.Errorf("%w: day part of %q", ErrInvalidBatchID, batchID)
	}

	slotIdx, err := strconv.Atoi(slotPart)
	if err != nil || slotIdx < 0 {
		return 0, 0, fmt.Errorf("%w: slot part of %q", ErrInvalidBatchID, batchID)
	}

	return WeekDay(dayIdx), slotIdx, nil
}
