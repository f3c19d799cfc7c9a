package inventory

import "errors"

var (
	// ErrInventoryNotFound у парковки не настроены места
	ErrInventoryNotFound = errors.New("inventory.repository: spot inventory not found")

	ErrBuildQuery = errors.New("inventory.repository: failed to build query")
	ErrExecQuery  = errors.New("inventory.repository: failed to execute query")
	ErrScanRow    = errors.New("inventory.repository: failed to scan row")
)
