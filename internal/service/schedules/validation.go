package schedules

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// validateCanonical проверяет расписание в каноническом виде теми же правилами, что и редактор
func validateCanonical(schedule domain.CanonicalSchedule) error {
	days := make(map[domain.WeekDay]string, len(schedule))
	keys := make(map[string]struct{})

	for name, day := range schedule {
		wd, err := domain.ParseWeekDay(name)
		if err != nil {
			return fmt.Errorf("%w: unknown day %q", ErrInvalidInput, name)
		}
		if other, ok := days[wd]; ok {
			return fmt.Errorf("%w: day %s is sent twice (%q and %q)", ErrInvalidInput, wd, other, name)
		}
		days[wd] = name

		for i, slot := range day.Slots {
			for _, t := range []string{slot.From, slot.To, slot.BreakFrom, slot.BreakTo} {
				if t == "" {
					continue
				}
				if _, ok := domain.CanonicalMinutes(t); !ok {
					return fmt.Errorf("%w: %s slot %d has malformed time %q", ErrInvalidInput, name, i, t)
				}
			}
			if slot.Token < 0 {
				return fmt.Errorf("%w: %s slot %d has negative token", ErrInvalidInput, name, i)
			}
			if slot.SlotKey == "" {
				continue
			}
			if _, err := uuid.Parse(slot.SlotKey); err != nil {
				return fmt.Errorf("%w: %s slot %d has malformed slot_key %q", ErrInvalidInput, name, i, slot.SlotKey)
			}
			if _, dup := keys[slot.SlotKey]; dup {
				return fmt.Errorf("%w: slot_key %s is used twice", ErrInvalidInput, slot.SlotKey)
			}
			keys[slot.SlotKey] = struct{}{}
		}
	}

	validation := domain.ValidateSchedule(domain.FromCanonicalForm(schedule))
	if !validation.IsValid() {
		return fmt.Errorf("%w: %v", ErrInvalidInput, validation.Err())
	}

	return nil
}

// normalize приводит имена дней к коротким и пересчитывает batch ID по позициям
func normalize(schedule domain.CanonicalSchedule) domain.CanonicalSchedule {
	out := make(domain.CanonicalSchedule, len(schedule))
	for name, day := range schedule {
		wd, _ := domain.ParseWeekDay(name)
		slots := make([]domain.CanonicalSlot, len(day.Slots))
		for i, slot := range day.Slots {
			slot.BatchID = domain.AddressOf(wd, i)
			slots[i] = slot
		}
		out[wd.String()] = domain.CanonicalDay{Enabled: day.Enabled, Slots: slots}
	}
	return out
}

// keepStoredTokens переносит в сохраняемое расписание ёмкость уже существующих слотов.
// Ёмкость существующего слота меняется только через UpdateCapacity, из payload берётся ёмкость новых слотов.
// Слот опознаётся по slot_key; слоты без ключа (старые клиенты) сопоставляются по batch ID.
// Слотам без ключа назначается новый ключ.
func keepStoredTokens(schedule, stored domain.CanonicalSchedule) {
	byKey := make(map[string]domain.CanonicalSlot)
	byBatch := make(map[string]domain.CanonicalSlot)
	claimed := make(map[string]struct{})
	for _, day := range schedule {
		for _, slot := range day.Slots {
			if slot.SlotKey != "" {
				claimed[slot.SlotKey] = struct{}{}
			}
		}
	}
	for _, day := range stored {
		for _, slot := range day.Slots {
			if slot.SlotKey != "" {
				byKey[slot.SlotKey] = slot
			}
			byBatch[slot.BatchID] = slot
		}
	}

	for _, day := range schedule {
		for i := range day.Slots {
			slot := &day.Slots[i]

			var (
				prev  domain.CanonicalSlot
				found bool
			)
			if slot.SlotKey != "" {
				prev, found = byKey[slot.SlotKey]
			} else if prev, found = byBatch[slot.BatchID]; found && prev.SlotKey != "" {
				if _, taken := claimed[prev.SlotKey]; taken {
					found = false
				} else {
					slot.SlotKey = prev.SlotKey
					claimed[prev.SlotKey] = struct{}{}
				}
			}

			if found && !slot.Unlimited && !prev.Unlimited {
				slot.Token = prev.Token
			}
			if slot.SlotKey == "" {
				slot.SlotKey = uuid.NewString()
			}
		}
	}
}
