package domain

import (
	"fmt"
	"strings"
)

// Сообщения валидации, показываются оператору как есть
const (
	MsgStartRequired      = "Start time is required"
	MsgEndRequired        = "End time is required"
	MsgInvalidStartHour   = "Start time must have an hour between 1 and 12"
	MsgInvalidEndHour     = "End time must have an hour between 1 and 12"
	MsgInvalidBreakStart  = "Break start must have an hour between 1 and 12"
	MsgInvalidBreakEnd    = "Break end must have an hour between 1 and 12"
	MsgEndBeforeStart     = "End time must be after start time"
	MsgBreakIncomplete    = "Break start and end must both be set"
	MsgBreakEndBeforeFrom = "Break end must be after break start"
	MsgBreakOutside       = "Break must be within working hours"
	MsgCapacityTooLow     = "Capacity must be at least 1"
	MsgBatchIDRequired    = "Batch ID is required"
	MsgEnabledDayNoSlots  = "Enabled day must have at least one slot"
)

// SlotValidation результат проверки одного слота
type SlotValidation struct {
	BatchID string
	IsValid bool
	Errors  []string
}

// ValidateSlot проверяет слот включённого дня. Ошибки собираются все, без остановки на первой.
// Выключенный слот не проверяется на обязательные поля, но формат заполненных значений и batch ID проверяются.
func ValidateSlot(batchID string, slot Slot) SlotValidation {
	var errs []string

	// 1. Обязательные поля
	if slot.Enabled {
		if slot.From.IsZero() {
			errs = append(errs, MsgStartRequired)
		}
		if slot.To.IsZero() {
			errs = append(errs, MsgEndRequired)
		}
	}

	// 2. Час в 12-часовом представлении: 1..12
	checkHour := func(t DisplayTime, msg string) {
		if t.IsZero() {
			return
		}
		if _, ok := ParseDisplayHour(t.Value); !ok {
			errs = append(errs, msg)
		}
	}
	checkHour(slot.From, MsgInvalidStartHour)
	checkHour(slot.To, MsgInvalidEndHour)
	checkHour(slot.BreakFrom, MsgInvalidBreakStart)
	checkHour(slot.BreakTo, MsgInvalidBreakEnd)

	// 3. Порядок времени (строго from < to)
	from, fromOK := CanonicalMinutes(slot.From.Canonical())
	to, toOK := CanonicalMinutes(slot.To.Canonical())
	if fromOK && toOK && from >= to {
		errs = append(errs, MsgEndBeforeStart)
	}

	// Перерыв: оба края или ни одного, внутри рабочего окна
	if slot.HasBreak() {
		if slot.BreakFrom.IsZero() || slot.BreakTo.IsZero() {
			errs = append(errs, MsgBreakIncomplete)
		} else {
			bFrom, bFromOK := CanonicalMinutes(slot.BreakFrom.Canonical())
			bTo, bToOK := CanonicalMinutes(slot.BreakTo.Canonical())
			if bFromOK && bToOK {
				if bFrom >= bTo {
					errs = append(errs, MsgBreakEndBeforeFrom)
				} else if fromOK && toOK && from < to && (bFrom < from || bTo > to) {
					errs = append(errs, MsgBreakOutside)
				}
			}
		}
	}

	// 4. Ёмкость
	if slot.Enabled && !slot.Unlimited && slot.Capacity < MinSlotCapacity {
		errs = append(errs, MsgCapacityTooLow)
	}

	// 5. Batch ID
	if strings.TrimSpace(batchID) == "" {
		errs = append(errs, MsgBatchIDRequired)
	}

	return SlotValidation{BatchID: batchID, IsValid: len(errs) == 0, Errors: errs}
}

// ScheduleValidation результат проверки всего недельного расписания
type ScheduleValidation struct {
	DayErrors map[WeekDay][]string // Ошибки уровня дня (например, включённый день без слотов)
	Slots     []SlotValidation     // Только слоты с ошибками
}

// IsValid возвращает true, если ошибок нет ни на уровне дней, ни на уровне слотов
func (v ScheduleValidation) IsValid() bool {
	return len(v.DayErrors) == 0 && len(v.Slots) == 0
}

// Err возвращает ErrScheduleInvalid с кратким перечнем ошибок либо nil
func (v ScheduleValidation) Err() error {
	if v.IsValid() {
		return nil
	}

	parts := make([]string, 0, len(v.DayErrors)+len(v.Slots))
	for _, day := range AllWeekDays() {
		for _, msg := range v.DayErrors[day] {
			parts = append(parts, fmt.Sprintf("%s: %s", day, msg))
		}
	}
	for _, sv := range v.Slots {
		parts = append(parts, fmt.Sprintf("slot %s: %s", sv.BatchID, strings.Join(sv.Errors, "; ")))
	}

	return fmt.Errorf("%w: %s", ErrScheduleInvalid, strings.Join(parts, ", "))
}

// ValidateSchedule проверяет все слоты включённых дней.
// Включённый день без слотов — ошибка уровня расписания, блокирующая сохранение.
func ValidateSchedule(w *WeeklySchedule) ScheduleValidation {
	result := ScheduleValidation{DayErrors: make(map[WeekDay][]string)}

	for _, day := range AllWeekDays() {
		d := w.days[day]
		if !d.Enabled {
			continue
		}

		if len(d.Slots) == 0 {
			result.DayErrors[day] = append(result.DayErrors[day], MsgEnabledDayNoSlots)
			continue
		}

		for i, s := range d.Slots {
			if sv := ValidateSlot(AddressOf(day, i), s); !sv.IsValid {
				result.Slots = append(result.Slots, sv)
			}
		}
	}

	if len(result.DayErrors) == 0 {
		result.DayErrors = nil
	}

	return result
}
