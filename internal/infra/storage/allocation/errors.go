package allocation

import "errors"

var (
	// ErrAllocationNotFound возвращается, когда аллокация не найдена
	ErrAllocationNotFound = errors.New("allocation.repository: allocation not found")

	// ErrAllocationNotActive условное закрытие не нашло активной аллокации
	ErrAllocationNotActive = errors.New("allocation.repository: allocation is not active")

	ErrBuildQuery = errors.New("allocation.repository: failed to build query")
	ErrExecQuery  = errors.New("allocation.repository: failed to execute query")
	ErrScanRow    = errors.New("allocation.repository: failed to scan row")
)
