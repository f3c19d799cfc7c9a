package facilities

import "errors"

var (
	// ErrScheduleNotFound у парковки нет тарифа
	ErrScheduleNotFound = errors.New("price schedule not found")

	// ErrSpotsNotConfigured у парковки не настроены места
	ErrSpotsNotConfigured = errors.New("spot inventory not configured")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
