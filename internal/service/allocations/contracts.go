package allocations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// AllocationRepository интерфейс репозитория аллокаций
type AllocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Allocation, error)
	GetByFacilityWithFilter(ctx context.Context, filter domain.AllocationsFilter) ([]*domain.Allocation, error)
}

// PriceRepository интерфейс репозитория тарифов
type PriceRepository interface {
	GetByFacility(ctx context.Context, facilityID int64) (*domain.PriceSchedule, error)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
