package open_allocation

import "errors"

var (
	// ErrScheduleNotFound у парковки не настроен тариф
	ErrScheduleNotFound = errors.New("open_allocation: price schedule not found")

	// ErrFacilityNotFound у парковки не настроены места
	ErrFacilityNotFound = errors.New("open_allocation: facility spots not configured")

	// ErrNoCapacityAvailable свободных мест нужной категории нет
	ErrNoCapacityAvailable = errors.New("open_allocation: no spots available")

	// ErrInvalidEntryDate время въезда в будущем
	ErrInvalidEntryDate = errors.New("open_allocation: entry date is in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("open_allocation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("open_allocation: internal error")
)
