package reservation

import "errors"

var (
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrAlreadyReleased место по токену уже возвращено
	ErrAlreadyReleased = errors.New("reservation.repository: reservation already released")

	ErrBuildQuery = errors.New("reservation.repository: failed to build query")
	ErrExecQuery  = errors.New("reservation.repository: failed to execute query")
	ErrScanRow    = errors.New("reservation.repository: failed to scan row")
)
