package open_allocation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// AllocationRepository интерфейс репозитория аллокаций
type AllocationRepository interface {
	Create(ctx context.Context, a *domain.Allocation) (*domain.Allocation, error)
}

// PriceRepository интерфейс репозитория тарифов
type PriceRepository interface {
	GetByFacility(ctx context.Context, facilityID int64) (*domain.PriceSchedule, error)
}

// CapacityManager интерфейс учёта свободных мест
type CapacityManager interface {
	Reserve(ctx context.Context, facilityID int64, vehicleType domain.VehicleType) (*domain.Reservation, error)
	Release(ctx context.Context, token uuid.UUID) error
}

// MetricsRecorder доменные метрики открытия аллокаций
type MetricsRecorder interface {
	AllocationOpened(vehicleType, paymentType string)
	CapacityRejected(vehicleType string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
