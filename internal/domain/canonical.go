package domain

// CanonicalSlot слот в каноническом (wire) виде: время в 24-часовом формате "HH:MM", "" если не задано.
// SlotKey постоянный ключ слота; batch ID остаётся позиционным.
type CanonicalSlot struct {
	SlotKey   string `json:"slot_key,omitempty"`
	BatchID   string `json:"batch_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	BreakFrom string `json:"breakFrom"`
	BreakTo   string `json:"breakTo"`
	Token     int    `json:"token"`
	Unlimited bool   `json:"unlimited,omitempty"`
	Enabled   *bool  `json:"enabled,omitempty"` // nil = включён (старые клиенты поле не передают)
}

// IsEnabled возвращает признак включения слота с учётом значения по умолчанию
func (s CanonicalSlot) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// CanonicalDay день в каноническом виде
type CanonicalDay struct {
	Enabled bool            `json:"enabled"`
	Slots   []CanonicalSlot `json:"slots"`
}

// CanonicalSchedule недельное расписание в каноническом виде, ключ — короткое имя дня ("Sun".."Sat")
type CanonicalSchedule map[string]CanonicalDay
