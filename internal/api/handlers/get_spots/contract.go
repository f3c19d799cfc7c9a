package get_spots

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/service/facilities/models"
)

type FacilityService interface {
	GetSpots(ctx context.Context, facilityID int64) (*models.SpotsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
