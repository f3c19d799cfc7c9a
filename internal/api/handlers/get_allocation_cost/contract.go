package get_allocation_cost

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/service/allocations/models"
)

type AllocationService interface {
	CurrentCost(ctx context.Context, id int64, now time.Time) (*models.CostResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
