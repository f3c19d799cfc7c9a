package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/allocation"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/inventory"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/reservation"
)

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	inv, err := domain.NewSpotInventory(1, domain.SpotCounts{Car: 2}, 5)
	require.NoError(t, err)
	_, err = store.Inventory().Upsert(ctx, inv)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.TxManager().DoSerializable(ctx, func(txCtx context.Context) error {
		got, err := store.Inventory().GetByFacility(txCtx, 1)
		require.NoError(t, err)
		require.NoError(t, got.Take(domain.VehicleCar))
		require.NoError(t, store.Inventory().UpdateFree(txCtx, got))
		_, err = store.Reservations().Create(txCtx, &domain.Reservation{Token: uuid.New(), FacilityID: 1, VehicleType: domain.VehicleCar})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.Inventory().GetByFacility(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Free.Car, "failed transaction must not change counters")

	count, err := store.Reservations().CountActive(ctx, 1, domain.VehicleCar)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTransactionManager_UncommittedChangesInvisibleOutside(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	inv, err := domain.NewSpotInventory(1, domain.SpotCounts{Car: 2}, 5)
	require.NoError(t, err)
	_, err = store.Inventory().Upsert(ctx, inv)
	require.NoError(t, err)

	taken := make(chan struct{})
	checked := make(chan struct{})
	boom := errors.New("boom")

	done := make(chan error, 1)
	go func() {
		done <- store.TxManager().DoSerializable(ctx, func(txCtx context.Context) error {
			got, err := store.Inventory().GetByFacility(txCtx, 1)
			if err != nil {
				return err
			}
			if err := got.Take(domain.VehicleCar); err != nil {
				return err
			}
			if err := store.Inventory().UpdateFree(txCtx, got); err != nil {
				return err
			}

			inside, err := store.Inventory().GetByFacility(txCtx, 1)
			if err != nil {
				return err
			}
			if inside.Free.Car != 1 {
				return errors.New("transaction must see its own write")
			}

			close(taken)
			<-checked
			return boom
		})
	}()

	select {
	case <-taken:
	case <-time.After(time.Second):
		t.Fatal("transaction did not start")
	}

	outside, err := store.Inventory().GetByFacility(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, outside.Free.Car, "reader outside the transaction must not see uncommitted counters")
	close(checked)

	assert.ErrorIs(t, <-done, boom)

	after, err := store.Inventory().GetByFacility(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, after.Free.Car)
}

func TestTransactionManager_CommitPublishesChanges(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	var id int64
	err := store.TxManager().Do(ctx, func(txCtx context.Context) error {
		a, err := store.Allocations().Create(txCtx, &domain.Allocation{FacilityID: 1, VehicleType: domain.VehicleCar, PaymentType: domain.PaymentHour, EntryDate: base})
		if err != nil {
			return err
		}
		id = a.ID

		_, err = store.Allocations().GetByID(ctx, id)
		assert.ErrorIs(t, err, allocation.ErrAllocationNotFound, "uncommitted allocation must be invisible outside")
		return nil
	})
	require.NoError(t, err)

	got, err := store.Allocations().GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsActive())
}

func TestTransactionManager_PanicDiscardsChanges(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	token := uuid.New()

	assert.Panics(t, func() {
		_ = store.TxManager().Do(ctx, func(txCtx context.Context) error {
			_, err := store.Reservations().Create(txCtx, &domain.Reservation{Token: token, FacilityID: 1, VehicleType: domain.VehicleMoto})
			require.NoError(t, err)
			panic("boom")
		})
	})

	_, err := store.Reservations().GetByToken(ctx, token)
	assert.ErrorIs(t, err, reservation.ErrReservationNotFound)

	// мьютекс транзакций освобождён
	require.NoError(t, store.TxManager().Do(ctx, func(context.Context) error { return nil }))
}

func TestTransactionManager_NestedRunsInOuter(t *testing.T) {
	store := NewStore()
	tm := store.TxManager()

	done := make(chan error, 1)
	go func() {
		done <- tm.Do(context.Background(), func(ctx context.Context) error {
			return tm.DoSerializable(ctx, func(ctx context.Context) error { return nil })
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("nested transaction deadlocked")
	}
}

func TestInventoryRepository(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	repo := store.Inventory()

	_, err := repo.GetByFacility(ctx, 1)
	assert.ErrorIs(t, err, inventory.ErrInventoryNotFound)
	assert.ErrorIs(t, repo.UpdateFree(ctx, &domain.SpotInventory{FacilityID: 1}), inventory.ErrInventoryNotFound)

	inv, err := domain.NewSpotInventory(1, domain.SpotCounts{Moto: 3}, 5)
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, inv)
	require.NoError(t, err)

	inv.Free.Moto = 1
	require.NoError(t, repo.UpdateFree(ctx, inv))

	got, err := repo.GetByFacility(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Free.Moto)
	assert.Equal(t, 3, got.Capacity.Moto)
}

func TestReservationRepository_MarkReleasedOnce(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	repo := store.Reservations()
	token := uuid.New()

	_, err := repo.GetByToken(ctx, token)
	assert.ErrorIs(t, err, reservation.ErrReservationNotFound)

	_, err = repo.Create(ctx, &domain.Reservation{Token: token, FacilityID: 1, VehicleType: domain.VehicleTruck})
	require.NoError(t, err)

	require.NoError(t, repo.MarkReleased(ctx, token, time.Now()))
	assert.ErrorIs(t, repo.MarkReleased(ctx, token, time.Now()), reservation.ErrAlreadyReleased)

	res, err := repo.GetByToken(ctx, token)
	require.NoError(t, err)
	assert.True(t, res.IsReleased())
}

func TestAllocationRepository(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	repo := store.Allocations()
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	first, err := repo.Create(ctx, &domain.Allocation{FacilityID: 1, VehicleType: domain.VehicleCar, PaymentType: domain.PaymentHour, EntryDate: base})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &domain.Allocation{FacilityID: 1, VehicleType: domain.VehicleMoto, PaymentType: domain.PaymentDay, EntryDate: base.Add(time.Hour)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.Allocation{FacilityID: 2, VehicleType: domain.VehicleCar, PaymentType: domain.PaymentHour, EntryDate: base})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	params := allocation.CloseParams{
		ExitDate:       base.Add(2 * time.Hour),
		ElapsedMinutes: 120,
		BilledAmount:   decimal.NewFromInt(14),
		TariffRule:     domain.RuleHourly,
	}
	require.NoError(t, repo.Close(ctx, first.ID, params))
	assert.ErrorIs(t, repo.Close(ctx, first.ID, params), allocation.ErrAllocationNotActive)

	all, err := repo.GetByFacilityWithFilter(ctx, domain.AllocationsFilter{FacilityID: 1})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest entry first")

	active := domain.AllocationActive
	onlyActive, err := repo.GetByFacilityWithFilter(ctx, domain.AllocationsFilter{FacilityID: 1, Status: &active})
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, second.ID, onlyActive[0].ID)

	closed, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, closed.IsClosed())
	require.NotNil(t, closed.BilledAmount)
	assert.True(t, closed.BilledAmount.Equal(decimal.NewFromInt(14)))

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, allocation.ErrAllocationNotFound)
}
