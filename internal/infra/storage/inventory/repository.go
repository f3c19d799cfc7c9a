package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

const table = "parking_operations"

var columns = []string{
	"facility_id",
	"car_spots",
	"moto_spots",
	"truck_spots",
	"pcd_spots",
	"elderly_spots",
	"car_capacity",
	"moto_capacity",
	"truck_capacity",
	"pcd_capacity",
	"elderly_capacity",
	"total_spots",
	"updated_at",
}

// Repository репозиторий счётчиков мест парковки
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByFacility возвращает счётчики мест.
// Внутри транзакции строка блокируется (FOR UPDATE) до её завершения.
func (r *Repository) GetByFacility(ctx context.Context, facilityID int64) (*domain.SpotInventory, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"facility_id": facilityID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacility - build select query: %v", ErrBuildQuery, err)
	}

	var (
		inv       domain.SpotInventory
		updatedAt sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&inv.FacilityID,
		&inv.Free.Car,
		&inv.Free.Moto,
		&inv.Free.Truck,
		&inv.Free.PCD,
		&inv.Free.Elderly,
		&inv.Capacity.Car,
		&inv.Capacity.Moto,
		&inv.Capacity.Truck,
		&inv.Capacity.PCD,
		&inv.Capacity.Elderly,
		&inv.TotalSpots,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInventoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacility - scan inventory: %w", ErrScanRow, err)
	}

	inv.UpdatedAt = updatedAt.Time
	return &inv, nil
}

// Upsert сохраняет все счётчики и ёмкости парковки
func (r *Repository) Upsert(ctx context.Context, inv *domain.SpotInventory) (*domain.SpotInventory, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns[:12]...).
		Values(
			inv.FacilityID,
			inv.Free.Car,
			inv.Free.Moto,
			inv.Free.Truck,
			inv.Free.PCD,
			inv.Free.Elderly,
			inv.Capacity.Car,
			inv.Capacity.Moto,
			inv.Capacity.Truck,
			inv.Capacity.PCD,
			inv.Capacity.Elderly,
			inv.TotalSpots,
		).
		Suffix(`ON CONFLICT (facility_id) DO UPDATE SET
			car_spots = EXCLUDED.car_spots,
			moto_spots = EXCLUDED.moto_spots,
			truck_spots = EXCLUDED.truck_spots,
			pcd_spots = EXCLUDED.pcd_spots,
			elderly_spots = EXCLUDED.elderly_spots,
			car_capacity = EXCLUDED.car_capacity,
			moto_capacity = EXCLUDED.moto_capacity,
			truck_capacity = EXCLUDED.truck_capacity,
			pcd_capacity = EXCLUDED.pcd_capacity,
			elderly_capacity = EXCLUDED.elderly_capacity,
			total_spots = EXCLUDED.total_spots,
			updated_at = NOW()
		RETURNING updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %w", ErrExecQuery, err)
	}

	inv.UpdatedAt = updatedAt.Time
	return inv, nil
}

// UpdateFree записывает только счётчики свободных мест
func (r *Repository) UpdateFree(ctx context.Context, inv *domain.SpotInventory) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("car_spots", inv.Free.Car).
		Set("moto_spots", inv.Free.Moto).
		Set("truck_spots", inv.Free.Truck).
		Set("pcd_spots", inv.Free.PCD).
		Set("elderly_spots", inv.Free.Elderly).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"facility_id": inv.FacilityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateFree - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateFree - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateFree - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrInventoryNotFound
	}

	return nil
}
