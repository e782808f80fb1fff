package domain

import "errors"

var (
	// ErrInvalidWeekDay возвращается при некорректном дне недели
	ErrInvalidWeekDay = errors.New("domain: invalid week day")

	// ErrInvalidBatchID возвращается, когда batch ID не соответствует формату "<day>:<slot>"
	ErrInvalidBatchID = errors.New("domain: invalid batch id")

	// ErrSlotIndexOutOfRange возвращается при обращении к несуществующей позиции слота
	ErrSlotIndexOutOfRange = errors.New("domain: slot index out of range")

	// ErrSlotNotFound возвращается, когда слот не найден по batch ID или ключу
	ErrSlotNotFound = errors.New("domain: slot not found")

	// ErrUnknownSlotField возвращается при попытке изменить неизвестное поле слота
	ErrUnknownSlotField = errors.New("domain: unknown slot field")

	// ErrInvalidFieldValue возвращается при некорректном значении поля слота
	ErrInvalidFieldValue = errors.New("domain: invalid slot field value")

	// ErrInvalidAction возвращается при неизвестном действии над ёмкостью
	ErrInvalidAction = errors.New("domain: invalid capacity action")

	// ErrInvalidAmount возвращается, когда значение изменения ёмкости не положительное
	ErrInvalidAmount = errors.New("domain: amount must be a positive integer")

	// ErrScheduleInvalid возвращается, когда расписание не прошло валидацию
	ErrScheduleInvalid = errors.New("domain: schedule is invalid")
)
