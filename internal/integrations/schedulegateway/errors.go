package schedulegateway

import (
	"errors"
	"fmt"
)

// DefaultRemoteMessage сообщение, если шлюз не прислал текст ошибки
const DefaultRemoteMessage = "schedule gateway request failed"

var (
	// ErrScheduleNotFound возвращается, когда у владельца ещё нет сохранённого расписания
	ErrScheduleNotFound = errors.New("schedulegateway client: schedule not found")

	// ErrRemote возвращается, когда шлюз ответил ошибкой
	ErrRemote = errors.New("schedulegateway client: remote error")

	// ErrUnavailable возвращается при сетевой ошибке или таймауте
	ErrUnavailable = errors.New("schedulegateway client: gateway unavailable")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("schedulegateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза
	ErrInvalidResponse = errors.New("schedulegateway client: invalid response")
)

// RemoteError ошибка, сообщённая шлюзом; Message показывается оператору как есть
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *RemoteError) Unwrap() error {
	return ErrRemote
}

// RemoteMessage возвращает текст ошибки шлюза для показа оператору
func RemoteMessage(err error) (string, bool) {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Message, true
	}
	return "", false
}
