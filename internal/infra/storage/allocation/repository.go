package allocation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"gopkg.in/guregu/null.v4"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ParkingService/pkg/psqlbuilder"
)

// Repository репозиторий аллокаций
type Repository struct {
	db DBExecutor
}

func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новую аллокацию в статусе active
func (r *Repository) Create(ctx context.Context, a *domain.Allocation) (*domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"facility_id",
			"client_id",
			"vehicle_id",
			"operator_id",
			"vehicle_type",
			"payment_type",
			"entry_date",
			"observations",
			"status",
			"reservation_token",
		).
		Values(
			a.FacilityID,
			a.ClientID,
			a.VehicleID,
			a.OperatorID,
			a.VehicleType,
			a.PaymentType,
			a.EntryDate,
			null.StringFromPtr(a.Observations),
			domain.AllocationActive,
			a.ReservationToken,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	a.Status = domain.AllocationActive
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return a, nil
}

// GetByID получает аллокацию по ID; внутри транзакции блокирует строку
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var rec row
	err = executor.QueryRowContext(ctx, query, args...).Scan(rec.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAllocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan allocation: %w", ErrScanRow, err)
	}

	return rec.toDomain(), nil
}

// GetByFacilityWithFilter возвращает аллокации парковки, новые первыми
func (r *Repository) GetByFacilityWithFilter(ctx context.Context, filter domain.AllocationsFilter) ([]*domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"facility_id": filter.FacilityID})

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.OrderBy("entry_date DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacilityWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFacilityWithFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	allocations := make([]*domain.Allocation, 0)
	for rows.Next() {
		var rec row
		if err := rows.Scan(rec.dest()...); err != nil {
			return nil, fmt.Errorf("%w: GetByFacilityWithFilter - scan allocation: %w", ErrScanRow, err)
		}
		allocations = append(allocations, rec.toDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByFacilityWithFilter - rows iteration: %w", ErrScanRow, err)
	}

	return allocations, nil
}

// Close переводит активную аллокацию в closed и фиксирует итог.
// Обновление условное: если аллокация уже закрыта, возвращается ErrAllocationNotActive.
func (r *Repository) Close(ctx context.Context, id int64, params CloseParams) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("exit_date", params.ExitDate).
		Set("elapsed_minutes", params.ElapsedMinutes).
		Set("billed_amount", params.BilledAmount).
		Set("tariff_rule", params.TariffRule).
		Set("status", domain.AllocationClosed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": domain.AllocationActive}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Close - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Close - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Close - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAllocationNotActive
	}

	return nil
}
