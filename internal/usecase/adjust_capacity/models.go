package adjust_capacity

import "github.com/m04kA/SMC-ScheduleService/internal/domain"

// Request модель запроса на изменение ёмкости слота
type Request struct {
	OwnerID int64                 // ID владельца расписания
	BatchID string                // Адрес слота "<day>:<slot>"
	Action  domain.CapacityAction // set / increase / decrease
	Amount  int                   // Положительное значение
	Actor   *string               // Оператор (опционально)
}

// Response модель ответа
type Response struct {
	NewValue   int                       // Подтверждённая шлюзом ёмкость
	Adjustment domain.CapacityAdjustment // Запись истории
}
