package edit_schedule

import "errors"

var (
	// ErrNotOpened возвращается при работе с сессией до Open
	ErrNotOpened = errors.New("edit_schedule: session is not opened")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("edit_schedule: invalid input data")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("edit_schedule: slot not found")

	// ErrValidation возвращается из Submit, если расписание не прошло валидацию; шлюз не вызывается
	ErrValidation = errors.New("edit_schedule: schedule has validation errors")

	// ErrPushFailed оборачивает ошибки фоновых отправок расписания
	ErrPushFailed = errors.New("edit_schedule: background save failed")

	// ErrGateway возвращается, когда шлюз не смог сохранить расписание
	ErrGateway = errors.New("edit_schedule: gateway failed to save schedule")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("edit_schedule: internal error")
)
