package get_allocation

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/allocations/models"
)

type AllocationService interface {
	GetByID(ctx context.Context, id int64) (*models.AllocationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
