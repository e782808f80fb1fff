package schedule

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда у владельца нет сохранённого расписания
	ErrScheduleNotFound = errors.New("schedule.repository: schedule not found")

	// ErrSlotNotFound возвращается, когда слот с batch ID не найден
	ErrSlotNotFound = errors.New("schedule.repository: slot not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
