package prices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-ParkingService/pkg/types"
)

const table = "parking_prices"

var columns = []string{
	"facility_id",
	"price_hour",
	"price_extra_hour",
	"daily_rate",
	"night_rate",
	"monthly_rate",
	"car_price",
	"moto_price",
	"truck_price",
	"night_start",
	"night_end",
	"created_at",
	"updated_at",
}

// Repository репозиторий тарифов парковок
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByFacility возвращает тариф парковки
func (r *Repository) GetByFacility(ctx context.Context, facilityID int64) (*domain.PriceSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"facility_id": facilityID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacility - build select query: %v", ErrBuildQuery, err)
	}

	var (
		schedule             domain.PriceSchedule
		nightStart, nightEnd types.TimeString
		createdAt, updatedAt sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&schedule.FacilityID,
		&schedule.PriceHour,
		&schedule.PriceExtraHour,
		&schedule.DailyRate,
		&schedule.NightRate,
		&schedule.MonthlyRate,
		&schedule.CarPrice,
		&schedule.MotoPrice,
		&schedule.TruckPrice,
		&nightStart,
		&nightEnd,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacility - scan schedule: %w", ErrScanRow, err)
	}

	if !nightStart.IsZero() && !nightEnd.IsZero() {
		schedule.NightPeriod = &domain.NightPeriod{Start: nightStart, End: nightEnd}
	}
	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time

	return &schedule, nil
}

// Upsert создаёт или полностью заменяет тариф парковки
func (r *Repository) Upsert(ctx context.Context, schedule *domain.PriceSchedule) (*domain.PriceSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var nightStart, nightEnd types.TimeString
	if schedule.NightPeriod != nil {
		nightStart = schedule.NightPeriod.Start
		nightEnd = schedule.NightPeriod.End
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns[:11]...).
		Values(
			schedule.FacilityID,
			schedule.PriceHour,
			schedule.PriceExtraHour,
			schedule.DailyRate,
			schedule.NightRate,
			schedule.MonthlyRate,
			schedule.CarPrice,
			schedule.MotoPrice,
			schedule.TruckPrice,
			nightStart,
			nightEnd,
		).
		Suffix(`ON CONFLICT (facility_id) DO UPDATE SET
			price_hour = EXCLUDED.price_hour,
			price_extra_hour = EXCLUDED.price_extra_hour,
			daily_rate = EXCLUDED.daily_rate,
			night_rate = EXCLUDED.night_rate,
			monthly_rate = EXCLUDED.monthly_rate,
			car_price = EXCLUDED.car_price,
			moto_price = EXCLUDED.moto_price,
			truck_price = EXCLUDED.truck_price,
			night_start = EXCLUDED.night_start,
			night_end = EXCLUDED.night_end,
			updated_at = NOW()
		RETURNING created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %w", ErrExecQuery, err)
	}

	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time

	return schedule, nil
}
