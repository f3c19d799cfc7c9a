package update_prices

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/facilities/models"
)

type FacilityService interface {
	UpsertPriceSchedule(ctx context.Context, req *models.UpsertPricesRequest) (*models.PriceScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
