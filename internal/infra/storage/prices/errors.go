package prices

import "errors"

var (
	// ErrScheduleNotFound у парковки нет тарифа
	ErrScheduleNotFound = errors.New("prices.repository: price schedule not found")

	ErrBuildQuery = errors.New("prices.repository: failed to build query")
	ErrExecQuery  = errors.New("prices.repository: failed to execute query")
	ErrScanRow    = errors.New("prices.repository: failed to scan row")
)
