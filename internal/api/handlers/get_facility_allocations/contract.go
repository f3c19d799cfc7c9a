package get_facility_allocations

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/allocations/models"
)

type AllocationService interface {
	ListByFacility(ctx context.Context, req *models.GetFacilityAllocationsRequest) (*models.AllocationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
