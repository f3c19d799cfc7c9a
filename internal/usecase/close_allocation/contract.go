package close_allocation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	allocationRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/allocation"
)

// AllocationRepository интерфейс репозитория аллокаций
type AllocationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Allocation, error)
	Close(ctx context.Context, id int64, params allocationRepo.CloseParams) error
}

// PriceRepository интерфейс репозитория тарифов
type PriceRepository interface {
	GetByFacility(ctx context.Context, facilityID int64) (*domain.PriceSchedule, error)
}

// CapacityManager интерфейс возврата мест
type CapacityManager interface {
	Release(ctx context.Context, token uuid.UUID) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder доменные метрики закрытия аллокаций
type MetricsRecorder interface {
	AllocationClosed(paymentType, tariffRule string, amount float64)
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
