package close_allocation

import "errors"

var (
	// ErrAllocationNotFound возвращается, когда аллокация не найдена
	ErrAllocationNotFound = errors.New("close_allocation: allocation not found")

	// ErrAlreadyClosed аллокация уже закрыта
	ErrAlreadyClosed = errors.New("close_allocation: allocation already closed")

	// ErrForbidden аллокация относится к другой парковке
	ErrForbidden = errors.New("close_allocation: allocation belongs to another facility")

	// ErrScheduleNotFound у парковки нет тарифа
	ErrScheduleNotFound = errors.New("close_allocation: price schedule not found")

	// ErrInvalidTimeRange время выезда раньше времени въезда
	ErrInvalidTimeRange = errors.New("close_allocation: exit date is before entry date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("close_allocation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("close_allocation: internal error")
)
