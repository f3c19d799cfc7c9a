package allocations

import "errors"

var (
	// ErrAllocationNotFound возвращается, когда аллокация не найдена
	ErrAllocationNotFound = errors.New("allocation not found")

	// ErrAllocationNotActive текущая стоимость есть только у активной аллокации
	ErrAllocationNotActive = errors.New("allocation is not active")

	// ErrScheduleNotFound у парковки нет тарифа
	ErrScheduleNotFound = errors.New("price schedule not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
