package edit_schedule

// SubmitResult результат финального сохранения формы
type SubmitResult struct {
	Message string // Сообщение шлюза

	// PushFailures ошибки фоновых отправок с момента предыдущего Submit.
	// Финальное сохранение их перекрывает, но оператор должен о них узнать.
	PushFailures error
}
