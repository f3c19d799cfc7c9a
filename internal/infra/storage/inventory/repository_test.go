package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/dbmetrics"
)

func newRepo(t *testing.T) (*Repository, *dbmetrics.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	wrapped := dbmetrics.Wrap(db, nil, "test")
	return NewRepository(wrapped), wrapped, mock
}

func inventoryRow(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(columns).
		AddRow(int64(1), 3, 2, 0, 1, 1, 5, 2, 1, 1, 1, 10, now)
}

func TestGetByFacility_NoLockOutsideTransaction(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM parking_operations WHERE facility_id = \\$1$").
		WithArgs(int64(1)).
		WillReturnRows(inventoryRow(time.Now()))

	inv, err := repo.GetByFacility(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, inv.Free.Car)
	assert.Equal(t, 5, inv.Capacity.Car)
	assert.Equal(t, 2, inv.Occupied(domain.VehicleCar))
	assert.Equal(t, 10, inv.TotalSpots)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByFacility_LocksRowInTransaction(t *testing.T) {
	repo, db, mock := newRepo(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM parking_operations WHERE facility_id = \\$1 FOR UPDATE").
		WithArgs(int64(1)).
		WillReturnRows(inventoryRow(time.Now()))
	mock.ExpectCommit()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	_, err = repo.GetByFacility(dbmetrics.WithTx(ctx, tx), 1)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByFacility_NotFound(t *testing.T) {
	repo, _, mock := newRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM parking_operations").WillReturnRows(sqlmock.NewRows(columns))

	_, err := repo.GetByFacility(context.Background(), 7)
	assert.ErrorIs(t, err, ErrInventoryNotFound)
}

func TestUpdateFree(t *testing.T) {
	repo, _, mock := newRepo(t)
	inv := &domain.SpotInventory{FacilityID: 1, Free: domain.SpotCounts{Car: 2, Moto: 1}}

	mock.ExpectExec("UPDATE parking_operations SET car_spots = \\$1, moto_spots = \\$2, truck_spots = \\$3, pcd_spots = \\$4, elderly_spots = \\$5, updated_at = NOW\\(\\) WHERE facility_id = \\$6").
		WithArgs(2, 1, 0, 0, 0, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateFree(context.Background(), inv))

	mock.ExpectExec("UPDATE parking_operations").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateFree(context.Background(), inv), ErrInventoryNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert(t *testing.T) {
	repo, _, mock := newRepo(t)
	now := time.Now()

	inv, err := domain.NewSpotInventory(4, domain.SpotCounts{Car: 10, PCD: 2}, 12)
	require.NoError(t, err)

	mock.ExpectQuery("INSERT INTO parking_operations (.+) ON CONFLICT \\(facility_id\\) DO UPDATE").
		WithArgs(int64(4), 10, 0, 0, 2, 0, 10, 0, 0, 2, 0, 12).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	saved, err := repo.Upsert(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, now, saved.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}
