package adjust_capacity

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных; шлюз не вызывается
	ErrInvalidInput = errors.New("adjust_capacity: invalid input data")

	// ErrSlotNotFound возвращается, когда batch ID не указывает на существующий слот
	ErrSlotNotFound = errors.New("adjust_capacity: slot not found")

	// ErrUnlimitedSlot возвращается при попытке изменить ёмкость безлимитного слота
	ErrUnlimitedSlot = errors.New("adjust_capacity: slot has unlimited capacity")

	// ErrGateway возвращается, когда шлюз отклонил изменение; локальное состояние не меняется
	ErrGateway = errors.New("adjust_capacity: gateway rejected the update")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("adjust_capacity: internal error")
)
