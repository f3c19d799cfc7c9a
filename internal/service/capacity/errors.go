package capacity

import "errors"

var (
	// ErrNoCapacityAvailable свободных мест категории нет
	ErrNoCapacityAvailable = errors.New("capacity: no spots available")

	// ErrAlreadyReleased место по токену уже возвращено
	ErrAlreadyReleased = errors.New("capacity: reservation already released")

	// ErrReservationNotFound токен неизвестен
	ErrReservationNotFound = errors.New("capacity: reservation not found")

	// ErrFacilityNotFound для парковки не настроены места
	ErrFacilityNotFound = errors.New("capacity: facility spot inventory not found")

	ErrInvalidInput = errors.New("capacity: invalid input data")
	ErrInternal     = errors.New("capacity: internal error")
)
