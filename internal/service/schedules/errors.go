package schedules

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда у владельца нет расписания
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrSlotNotFound возвращается, когда слот с batch ID не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrUnlimitedSlot возвращается при изменении ёмкости безлимитного слота
	ErrUnlimitedSlot = errors.New("slot has unlimited capacity")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
