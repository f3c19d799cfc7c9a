package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

const table = "spot_reservations"

// Repository репозиторий удержаний мест
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новое удержание места
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("token", "facility_id", "vehicle_type").
		Values(res.Token, res.FacilityID, res.VehicleType).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time
	return res, nil
}

// GetByToken возвращает удержание; внутри транзакции блокирует строку
func (r *Repository) GetByToken(ctx context.Context, token uuid.UUID) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("token", "facility_id", "vehicle_type", "created_at", "released_at").
		From(table).
		Where(squirrel.Eq{"token": token})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByToken - build select query: %v", ErrBuildQuery, err)
	}

	var (
		res        domain.Reservation
		createdAt  sql.NullTime
		releasedAt null.Time
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.Token,
		&res.FacilityID,
		&res.VehicleType,
		&createdAt,
		&releasedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByToken - scan reservation: %w", ErrScanRow, err)
	}

	res.CreatedAt = createdAt.Time
	res.ReleasedAt = releasedAt.Ptr()
	return &res, nil
}

// MarkReleased помечает удержание возвращённым. Повторная отметка даёт ErrAlreadyReleased.
func (r *Repository) MarkReleased(ctx context.Context, token uuid.UUID, releasedAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("released_at", releasedAt).
		Where(squirrel.Eq{"token": token}).
		Where(squirrel.Eq{"released_at": nil}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkReleased - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkReleased - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkReleased - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAlreadyReleased
	}

	return nil
}

// CountActive количество неосвобождённых удержаний категории
func (r *Repository) CountActive(ctx context.Context, facilityID int64, vehicleType domain.VehicleType) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{"facility_id": facilityID, "vehicle_type": vehicleType, "released_at": nil}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActive - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActive - scan count: %w", ErrScanRow, err)
	}
	return count, nil
}
