package domain

// Значения по умолчанию для новых слотов
const (
	DefaultSlotGapMinutes    = 30 // Пауза между концом предыдущего слота и началом нового
	DefaultSlotLengthMinutes = 60
	DefaultSlotCapacity      = 10
)

// Окно работы для первого слота дня
var (
	DefaultSlotFrom = DisplayTime{Value: "09:00", Period: PeriodAM}
	DefaultSlotTo   = DisplayTime{Value: "05:00", Period: PeriodPM}
	LastSlotEnd     = DisplayTime{Value: "11:59", Period: PeriodPM}
)

// MinSlotCapacity минимальная ёмкость слота без флага unlimited
const MinSlotCapacity = 1
