package capacity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// InventoryRepository интерфейс репозитория счётчиков мест
type InventoryRepository interface {
	GetByFacility(ctx context.Context, facilityID int64) (*domain.SpotInventory, error)
	UpdateFree(ctx context.Context, inv *domain.SpotInventory) error
}

// ReservationRepository интерфейс репозитория удержаний
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetByToken(ctx context.Context, token uuid.UUID) (*domain.Reservation, error)
	MarkReleased(ctx context.Context, token uuid.UUID, releasedAt time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
