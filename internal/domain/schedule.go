package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// WeeklySchedule агрегат недельного расписания: все 7 дней присутствуют всегда
type WeeklySchedule struct {
	days [DaysInWeek]DaySchedule
}

// NewWeeklySchedule создаёт расписание со всеми выключенными пустыми днями
func NewWeeklySchedule() *WeeklySchedule {
	return &WeeklySchedule{}
}

// Day возвращает копию расписания дня
func (w *WeeklySchedule) Day(day WeekDay) DaySchedule {
	if !day.Valid() {
		return DaySchedule{}
	}
	d := w.days[day]
	return DaySchedule{Enabled: d.Enabled, Slots: append([]Slot(nil), d.Slots...)}
}

// ToggleDay переключает признак работы дня и возвращает новое значение.
// Слоты при выключении сохраняются (скрываются), при включении становятся видимыми снова.
func (w *WeeklySchedule) ToggleDay(day WeekDay) (bool, error) {
	if !day.Valid() {
		return false, fmt.Errorf("%w: %d", ErrInvalidWeekDay, int(day))
	}
	w.days[day].Enabled = !w.days[day].Enabled
	return w.days[day].Enabled, nil
}

// SetDayEnabled явно задаёт признак работы дня
func (w *WeeklySchedule) SetDayEnabled(day WeekDay, enabled bool) error {
	if !day.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidWeekDay, int(day))
	}
	w.days[day].Enabled = enabled
	return nil
}

// AddSlot добавляет слот в конец дня.
// Окно нового слота начинается через DefaultSlotGapMinutes после конца предыдущего,
// ёмкость копируется из предыдущего слота либо берётся DefaultSlotCapacity.
func (w *WeeklySchedule) AddSlot(day WeekDay) (SlotRef, error) {
	if !day.Valid() {
		return SlotRef{}, fmt.Errorf("%w: %d", ErrInvalidWeekDay, int(day))
	}

	slot := Slot{
		Key:      uuid.New(),
		From:     DefaultSlotFrom,
		To:       DefaultSlotTo,
		Capacity: DefaultSlotCapacity,
		Enabled:  true,
	}

	slots := w.days[day].Slots
	if len(slots) > 0 {
		prev := slots[len(slots)-1]
		slot.Capacity = prev.Capacity
		slot.Unlimited = prev.Unlimited
		slot.From, slot.To = nextWindow(prev.To)
	}

	w.days[day].Slots = append(w.days[day].Slots, slot)
	index := len(w.days[day].Slots) - 1

	return SlotRef{Key: slot.Key, Day: day, Index: index, BatchID: AddressOf(day, index), Slot: slot}, nil
}

// nextWindow вычисляет окно слота, следующего за слотом, который заканчивается в prevEnd
func nextWindow(prevEnd DisplayTime) (DisplayTime, DisplayTime) {
	from, ok := AddMinutesToDisplay(prevEnd, DefaultSlotGapMinutes)
	if !ok {
		if _, valid := CanonicalMinutes(prevEnd.Canonical()); valid {
			// Предыдущий слот заканчивается слишком поздно, время заполняет оператор
			return DisplayTime{Period: PeriodPM}, DisplayTime{Period: PeriodPM}
		}
		return DefaultSlotFrom, DefaultSlotTo
	}

	to, ok := AddMinutesToDisplay(from, DefaultSlotLengthMinutes)
	if !ok {
		to = LastSlotEnd
	}
	return from, to
}

// RemoveSlot удаляет слот по позиции; последующие слоты дня получают новые batch ID
func (w *WeeklySchedule) RemoveSlot(day WeekDay, index int) (Slot, error) {
	if err := w.checkPosition(day, index); err != nil {
		return Slot{}, err
	}

	slots := w.days[day].Slots
	removed := slots[index]
	w.days[day].Slots = append(slots[:index:index], slots[index+1:]...)

	return removed, nil
}

// UpdateSlotField изменяет одно поле слота.
// Изменение capacity через этот путь игнорируется: ёмкость меняется только через журнал,
// чтобы каждое изменение попадало в историю.
func (w *WeeklySchedule) UpdateSlotField(day WeekDay, index int, field SlotField, value string) error {
	if err := w.checkPosition(day, index); err != nil {
		return err
	}

	if err := w.days[day].Slots[index].applyField(field, value); err != nil {
		return fmt.Errorf("%w: field=%s value=%q", err, field, value)
	}

	return nil
}

// SlotAt возвращает копию слота по позиции
func (w *WeeklySchedule) SlotAt(day WeekDay, index int) (Slot, error) {
	if err := w.checkPosition(day, index); err != nil {
		return Slot{}, err
	}
	return w.days[day].Slots[index], nil
}

// ResolveBatch разрешает batch ID в слот по текущим позициям
func (w *WeeklySchedule) ResolveBatch(batchID string) (SlotRef, error) {
	day, index, err := ParseBatchID(batchID)
	if err != nil {
		return SlotRef{}, err
	}

	slots := w.days[day].Slots
	if index >= len(slots) {
		return SlotRef{}, fmt.Errorf("%w: batch_id=%s", ErrSlotNotFound, batchID)
	}

	return SlotRef{Key: slots[index].Key, Day: day, Index: index, BatchID: batchID, Slot: slots[index]}, nil
}

// Locate находит текущую позицию слота по постоянному ключу
func (w *WeeklySchedule) Locate(key uuid.UUID) (SlotRef, bool) {
	for _, day := range AllWeekDays() {
		for i, s := range w.days[day].Slots {
			if s.Key == key {
				return SlotRef{Key: key, Day: day, Index: i, BatchID: AddressOf(day, i), Slot: s}, true
			}
		}
	}
	return SlotRef{}, false
}

// SetCapacity фиксирует подтверждённую ёмкость слота по ключу.
// Вызывается только журналом ёмкости после успешной записи на стороне шлюза.
func (w *WeeklySchedule) SetCapacity(key uuid.UUID, value int) error {
	ref, ok := w.Locate(key)
	if !ok {
		return fmt.Errorf("%w: key=%s", ErrSlotNotFound, key)
	}
	w.days[ref.Day].Slots[ref.Index].Capacity = value
	return nil
}

// Clone возвращает глубокую копию расписания
func (w *WeeklySchedule) Clone() *WeeklySchedule {
	c := &WeeklySchedule{}
	for i := range w.days {
		c.days[i] = DaySchedule{
			Enabled: w.days[i].Enabled,
			Slots:   append([]Slot(nil), w.days[i].Slots...),
		}
	}
	return c
}

// ToCanonicalForm сериализует расписание: время переводится в 24-часовой формат, batch ID вычисляется по позиции
func (w *WeeklySchedule) ToCanonicalForm() CanonicalSchedule {
	out := make(CanonicalSchedule, DaysInWeek)

	for _, day := range AllWeekDays() {
		d := w.days[day]
		slots := make([]CanonicalSlot, 0, len(d.Slots))
		for i, s := range d.Slots {
			enabled := s.Enabled
			token := s.Capacity
			if s.Unlimited {
				token = 0
			}
			slots = append(slots, CanonicalSlot{
				SlotKey:   s.Key.String(),
				BatchID:   AddressOf(day, i),
				From:      s.From.Canonical(),
				To:        s.To.Canonical(),
				BreakFrom: s.BreakFrom.Canonical(),
				BreakTo:   s.BreakTo.Canonical(),
				Token:     token,
				Unlimited: s.Unlimited,
				Enabled:   &enabled,
			})
		}
		out[day.String()] = CanonicalDay{Enabled: d.Enabled, Slots: slots}
	}

	return out
}

// FromCanonicalForm восстанавливает расписание из канонического вида.
// Отсутствующие дни становятся выключенными и пустыми, отсутствующий перерыв — пустым.
// Batch ID из payload не используется: позиции определяются порядком слотов.
// Ключ слота берётся из payload, а если его нет или он некорректен, создаётся новый.
// Если день передан под несколькими именами ("Mon" и "monday"), побеждает короткое имя.
func FromCanonicalForm(payload CanonicalSchedule) *WeeklySchedule {
	w := NewWeeklySchedule()

	for name, cd := range payload {
		day, err := ParseWeekDay(name)
		if err != nil {
			continue
		}
		if _, short := payload[day.String()]; short && name != day.String() {
			continue
		}

		slots := make([]Slot, 0, len(cd.Slots))
		for _, cs := range cd.Slots {
			key, err := uuid.Parse(cs.SlotKey)
			if err != nil {
				key = uuid.New()
			}
			slots = append(slots, Slot{
				Key:       key,
				From:      displayOrEmpty(cs.From),
				To:        displayOrEmpty(cs.To),
				BreakFrom: displayOrEmpty(cs.BreakFrom),
				BreakTo:   displayOrEmpty(cs.BreakTo),
				Capacity:  cs.Token,
				Unlimited: cs.Unlimited,
				Enabled:   cs.IsEnabled(),
			})
		}

		w.days[day] = DaySchedule{Enabled: cd.Enabled, Slots: slots}
	}

	return w
}

// displayOrEmpty переводит каноническое время; пустое значение остаётся полностью пустым
func displayOrEmpty(canonical string) DisplayTime {
	if canonical == "" {
		return DisplayTime{}
	}
	return ToDisplay(canonical)
}

func (w *WeeklySchedule) checkPosition(day WeekDay, index int) error {
	if !day.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidWeekDay, int(day))
	}
	if index < 0 || index >= len(w.days[day].Slots) {
		return fmt.Errorf("%w: day=%s index=%d", ErrSlotIndexOutOfRange, day, index)
	}
	return nil
}
