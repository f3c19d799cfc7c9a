package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/config"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	allocationRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/allocation"
	inventoryRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/inventory"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	pricesRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/prices"
	reservationRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
	"github.com/m04kA/SMC-ParkingService/pkg/txmanager"
)

type priceStore interface {
	GetByFacility(ctx context.Context, facilityID int64) (*domain.PriceSchedule, error)
	Upsert(ctx context.Context, schedule *domain.PriceSchedule) (*domain.PriceSchedule, error)
}

type inventoryStore interface {
	GetByFacility(ctx context.Context, facilityID int64) (*domain.SpotInventory, error)
	Upsert(ctx context.Context, inv *domain.SpotInventory) (*domain.SpotInventory, error)
	UpdateFree(ctx context.Context, inv *domain.SpotInventory) error
}

type reservationStore interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetByToken(ctx context.Context, token uuid.UUID) (*domain.Reservation, error)
	MarkReleased(ctx context.Context, token uuid.UUID, releasedAt time.Time) error
}

type allocationStore interface {
	Create(ctx context.Context, a *domain.Allocation) (*domain.Allocation, error)
	GetByID(ctx context.Context, id int64) (*domain.Allocation, error)
	GetByFacilityWithFilter(ctx context.Context, filter domain.AllocationsFilter) ([]*domain.Allocation, error)
	Close(ctx context.Context, id int64, params allocationRepo.CloseParams) error
}

type txManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// repositories набор хранилищ, выбранный по [storage] driver
type repositories struct {
	prices       priceStore
	inventory    inventoryStore
	reservations reservationStore
	allocations  allocationStore
	txManager    txManager
}

// newPostgresRepositories репозитории поверх *sql.DB; без метрик обёртка пишет только в контекст транзакции
func newPostgresRepositories(cfg *config.Config, db *sql.DB, m *metrics.Metrics, stopCh <-chan struct{}) *repositories {
	var wrapped *dbmetrics.DB
	if m != nil {
		wrapped = dbmetrics.WrapWithDefault(db, m, cfg.Metrics.ServiceName, stopCh)
	} else {
		wrapped = dbmetrics.Wrap(db, nil, cfg.Metrics.ServiceName)
	}

	return &repositories{
		prices:       pricesRepo.NewRepository(wrapped),
		inventory:    inventoryRepo.NewRepository(wrapped),
		reservations: reservationRepo.NewRepository(wrapped),
		allocations:  allocationRepo.NewRepository(wrapped),
		txManager:    txmanager.NewTransactionManager(wrapped).WithMaxRetries(cfg.Database.MaxTxRetries),
	}
}

// newMemoryRepositories репозитории в памяти процесса (локальный запуск, демо)
func newMemoryRepositories() *repositories {
	store := memory.NewStore()
	return &repositories{
		prices:       store.Prices(),
		inventory:    store.Inventory(),
		reservations: store.Reservations(),
		allocations:  store.Allocations(),
		txManager:    store.TxManager(),
	}
}
