package domain

import (
	"strconv"

	"github.com/google/uuid"
)

// Slot интервал записи внутри дня.
// Key — постоянный ключ в памяти; позиционный batch ID вычисляется только при сериализации.
type Slot struct {
	Key       uuid.UUID
	From      DisplayTime
	To        DisplayTime
	BreakFrom DisplayTime
	BreakTo   DisplayTime
	Capacity  int  // Текущий лимит записей (токенов)
	Unlimited bool // Явный признак безлимитного слота, Capacity при этом не используется
	Enabled   bool
}

// HasBreak возвращает true, если задан хотя бы один край перерыва
func (s *Slot) HasBreak() bool {
	return !s.BreakFrom.IsZero() || !s.BreakTo.IsZero()
}

// DaySchedule расписание одного дня.
// Слоты выключенного дня сохраняются и скрываются, а не удаляются.
type DaySchedule struct {
	Enabled bool
	Slots   []Slot
}

// SlotRef результат разрешения batch ID в текущем состоянии расписания
type SlotRef struct {
	Key     uuid.UUID
	Day     WeekDay
	Index   int
	BatchID string
	Slot    Slot
}

// SlotField редактируемое поле слота
type SlotField string

const (
	FieldFrom            SlotField = "from"
	FieldFromPeriod      SlotField = "fromPeriod"
	FieldTo              SlotField = "to"
	FieldToPeriod        SlotField = "toPeriod"
	FieldBreakFrom       SlotField = "breakFrom"
	FieldBreakFromPeriod SlotField = "breakFromPeriod"
	FieldBreakTo         SlotField = "breakTo"
	FieldBreakToPeriod   SlotField = "breakToPeriod"
	FieldEnabled         SlotField = "enabled"
	FieldUnlimited       SlotField = "unlimited"
	// FieldCapacity меняется только через журнал ёмкости; UpdateSlotField его игнорирует
	FieldCapacity SlotField = "capacity"
)

// applyField применяет изменение одного поля к слоту
func (s *Slot) applyField(field SlotField, value string) error {
	switch field {
	case FieldFrom:
		s.From.Value = value
	case FieldTo:
		s.To.Value = value
	case FieldBreakFrom:
		s.BreakFrom.Value = value
	case FieldBreakTo:
		s.BreakTo.Value = value
	case FieldFromPeriod, FieldToPeriod, FieldBreakFromPeriod, FieldBreakToPeriod:
		p, err := ParsePeriod(value)
		if err != nil {
			return err
		}
		switch field {
		case FieldFromPeriod:
			s.From.Period = p
		case FieldToPeriod:
			s.To.Period = p
		case FieldBreakFromPeriod:
			s.BreakFrom.Period = p
		default:
			s.BreakTo.Period = p
		}
	case FieldEnabled, FieldUnlimited:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return ErrInvalidFieldValue
		}
		if field == FieldEnabled {
			s.Enabled = b
		} else {
			s.Unlimited = b
		}
	case FieldCapacity:
		// no-op
	default:
		return ErrUnknownSlotField
	}
	return nil
}
