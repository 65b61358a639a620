package listing_backend

import "errors"

var (
	// бэкенд ответил success:false или статусом ошибки
	ErrBackend = errors.New("listing backend error")
	// бэкенд недоступен: circuit breaker открыт или все слоты заняты
	ErrUnavailable = errors.New("listing backend is temporarily unavailable")
)

// BackendError - ошибка, которую вернул сам бэкенд (с его сообщением и http статусом)
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return ErrBackend.Error()
	}
	return ErrBackend.Error() + ": " + e.Message
}

func (e *BackendError) Unwrap() error {
	return ErrBackend
}
