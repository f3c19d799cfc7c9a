package facilities

import (
	"context"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// PriceRepository интерфейс репозитория тарифов
type PriceRepository interface {
	GetByFacility(ctx context.Context, facilityID int64) (*domain.PriceSchedule, error)
	Upsert(ctx context.Context, schedule *domain.PriceSchedule) (*domain.PriceSchedule, error)
}

// InventoryRepository интерфейс репозитория счётчиков мест
type InventoryRepository interface {
	GetByFacility(ctx context.Context, facilityID int64) (*domain.SpotInventory, error)
	Upsert(ctx context.Context, inv *domain.SpotInventory) (*domain.SpotInventory, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
