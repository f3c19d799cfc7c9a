package close_allocation

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
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ParkingService/internal/service/capacity"
	"github.com/m04kA/SMC-ParkingService/internal/usecase/open_allocation"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
	"github.com/m04kA/SMC-ParkingService/pkg/metrics"
	"github.com/m04kA/SMC-ParkingService/pkg/ptr"
)

var entry = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fixedTime time.Time

func (f fixedTime) Now() time.Time { return time.Time(f) }

type failingCapacity struct {
	err error
}

func (f failingCapacity) Release(ctx context.Context, token uuid.UUID) error {
	return f.err
}

type fixture struct {
	store    *memory.Store
	capacity *capacity.Service
	open     *open_allocation.UseCase
}

func newFixture(t *testing.T, params domain.PriceScheduleParams) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	schedule, err := domain.NewPriceSchedule(1, params)
	require.NoError(t, err)
	_, err = store.Prices().Upsert(ctx, schedule)
	require.NoError(t, err)

	inv, err := domain.NewSpotInventory(1, domain.SpotCounts{Car: 2, PCD: 1}, 10)
	require.NoError(t, err)
	_, err = store.Inventory().Upsert(ctx, inv)
	require.NoError(t, err)

	capacitySvc := capacity.NewService(store.Inventory(), store.Reservations(), store.TxManager(), logger.NewNop())
	open := open_allocation.NewUseCase(store.Allocations(), store.Prices(), capacitySvc, (*metrics.Metrics)(nil), logger.NewNop()).
		WithTimeProvider(fixedTime(entry))

	return &fixture{store: store, capacity: capacitySvc, open: open}
}

func (f *fixture) closeUseCase(capacityMgr CapacityManager) *UseCase {
	return NewUseCase(f.store.Allocations(), f.store.Prices(), capacityMgr, f.store.TxManager(),
		(*metrics.Metrics)(nil), time.UTC, logger.NewNop())
}

func (f *fixture) openAllocation(t *testing.T, vehicleType, paymentType string) int64 {
	t.Helper()
	resp, err := f.open.Execute(context.Background(), &open_allocation.Request{
		OperatorID:  7,
		FacilityID:  1,
		ClientID:    10,
		VehicleID:   20,
		VehicleType: vehicleType,
		PaymentType: paymentType,
	})
	require.NoError(t, err)
	return resp.ID
}

func hourlyParams() domain.PriceScheduleParams {
	return domain.PriceScheduleParams{
		PriceHour:      decimal.NewFromInt(10),
		PriceExtraHour: decimal.NewFromInt(4),
		DailyRate:      decimal.NewFromInt(50),
		NightRate:      decimal.NewFromInt(2),
		MonthlyRate:    decimal.NewFromInt(300),
		CarPrice:       decimal.NewFromInt(3),
	}
}

func TestExecute_RoundTripReturnsSpot(t *testing.T) {
	f := newFixture(t, hourlyParams())
	ctx := context.Background()

	id := f.openAllocation(t, "pcd", "hour")

	inv, err := f.capacity.Availability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Free.PCD)

	resp, err := f.closeUseCase(f.capacity).Execute(ctx, &Request{
		OperatorID:   7,
		FacilityID:   1,
		AllocationID: id,
		ExitDate:     ptr.Ptr(entry),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AllocationClosed, resp.Status)
	assert.Equal(t, int64(0), resp.Cost.ElapsedMinutes)
	assert.True(t, decimal.NewFromInt(10).Equal(resp.Cost.Amount), "got %s", resp.Cost.Amount)
	assert.Equal(t, domain.RuleHourly, resp.Cost.Rule)

	inv, err = f.capacity.Availability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, inv.Free.PCD)

	stored, err := f.store.Allocations().GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, stored.IsClosed())
	require.NotNil(t, stored.BilledAmount)
	assert.True(t, decimal.NewFromInt(10).Equal(*stored.BilledAmount))
}

func TestExecute_ChargesSurchargeAndExtraHours(t *testing.T) {
	f := newFixture(t, hourlyParams())

	id := f.openAllocation(t, "car", "hour")

	resp, err := f.closeUseCase(f.capacity).Execute(context.Background(), &Request{
		OperatorID:   7,
		FacilityID:   1,
		AllocationID: id,
		ExitDate:     ptr.Ptr(entry.Add(2*time.Hour + time.Minute)),
	})
	require.NoError(t, err)

	// 10 + 4 + 4 + car 3
	assert.True(t, decimal.NewFromInt(21).Equal(resp.Cost.Amount), "got %s", resp.Cost.Amount)
	assert.Equal(t, int64(121), resp.Cost.ElapsedMinutes)
}

func TestExecute_AlreadyClosed(t *testing.T) {
	f := newFixture(t, hourlyParams())
	uc := f.closeUseCase(f.capacity).WithTimeProvider(fixedTime(entry.Add(time.Hour)))
	id := f.openAllocation(t, "car", "day")

	req := &Request{OperatorID: 7, FacilityID: 1, AllocationID: id}
	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAlreadyClosed)

	inv, err := f.capacity.Availability(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, inv.Free.Car, "second close must not return a spot twice")
}

func TestExecute_ExitBeforeEntry(t *testing.T) {
	f := newFixture(t, hourlyParams())
	id := f.openAllocation(t, "car", "hour")

	_, err := f.closeUseCase(f.capacity).Execute(context.Background(), &Request{
		OperatorID:   7,
		FacilityID:   1,
		AllocationID: id,
		ExitDate:     ptr.Ptr(entry.Add(-time.Minute)),
	})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	stored, err := f.store.Allocations().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, stored.IsActive())
}

func TestExecute_ReleaseFailureRollsBackClose(t *testing.T) {
	f := newFixture(t, hourlyParams())
	id := f.openAllocation(t, "car", "hour")

	uc := f.closeUseCase(failingCapacity{err: errors.New("inventory row locked")}).
		WithTimeProvider(fixedTime(entry.Add(time.Hour)))

	_, err := uc.Execute(context.Background(), &Request{OperatorID: 7, FacilityID: 1, AllocationID: id})
	assert.ErrorIs(t, err, ErrInternal)

	stored, err := f.store.Allocations().GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, stored.IsActive(), "failed release must keep the allocation active")
	assert.Nil(t, stored.ExitDate)
}

func TestExecute_AlreadyReleasedTokenStillCloses(t *testing.T) {
	f := newFixture(t, hourlyParams())
	id := f.openAllocation(t, "car", "month")

	uc := f.closeUseCase(failingCapacity{err: capacity.ErrAlreadyReleased}).
		WithTimeProvider(fixedTime(entry.Add(40 * 24 * time.Hour)))

	resp, err := uc.Execute(context.Background(), &Request{OperatorID: 7, FacilityID: 1, AllocationID: id})
	require.NoError(t, err)
	assert.Equal(t, domain.RuleMonthly, resp.Cost.Rule)
	assert.True(t, decimal.NewFromInt(303).Equal(resp.Cost.Amount), "got %s", resp.Cost.Amount)
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t, hourlyParams())
	uc := f.closeUseCase(f.capacity)
	id := f.openAllocation(t, "car", "hour")

	_, err := uc.Execute(context.Background(), &Request{OperatorID: 7, FacilityID: 1, AllocationID: 999})
	assert.ErrorIs(t, err, ErrAllocationNotFound)

	_, err = uc.Execute(context.Background(), &Request{OperatorID: 7, FacilityID: 2, AllocationID: id})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = uc.Execute(context.Background(), &Request{OperatorID: 0, FacilityID: 1, AllocationID: id})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_EntryWithinClockSkewClosesNow(t *testing.T) {
	f := newFixture(t, hourlyParams())
	ctx := context.Background()

	resp, err := f.open.Execute(ctx, &open_allocation.Request{
		OperatorID:  7,
		FacilityID:  1,
		ClientID:    10,
		VehicleID:   20,
		VehicleType: "car",
		PaymentType: "hour",
		EntryDate:   ptr.Ptr(entry.Add(30 * time.Second)),
	})
	require.NoError(t, err)
	assert.True(t, entry.Equal(resp.EntryDate), "entry within skew is stored as now")

	closed, err := f.closeUseCase(f.capacity).WithTimeProvider(fixedTime(entry)).Execute(ctx, &Request{
		OperatorID:   7,
		AllocationID: resp.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), closed.Cost.ElapsedMinutes)
	assert.True(t, decimal.NewFromInt(13).Equal(closed.Cost.Amount), "got %s", closed.Cost.Amount)
}

func TestExecute_DefaultExitClampedToStoredEntry(t *testing.T) {
	f := newFixture(t, hourlyParams())
	ctx := context.Background()

	reservation, err := f.capacity.Reserve(ctx, 1, domain.VehicleCar)
	require.NoError(t, err)
	stored, err := f.store.Allocations().Create(ctx, &domain.Allocation{
		FacilityID:       1,
		ClientID:         10,
		VehicleID:        20,
		OperatorID:       7,
		VehicleType:      domain.VehicleCar,
		PaymentType:      domain.PaymentHour,
		EntryDate:        entry.Add(40 * time.Second),
		ReservationToken: reservation.Token,
	})
	require.NoError(t, err)

	closed, err := f.closeUseCase(f.capacity).WithTimeProvider(fixedTime(entry)).Execute(ctx, &Request{
		OperatorID:   7,
		AllocationID: stored.ID,
	})
	require.NoError(t, err)
	assert.True(t, stored.EntryDate.Equal(closed.ExitDate), "exit clamped to entry, got %s", closed.ExitDate)
	assert.True(t, decimal.NewFromInt(13).Equal(closed.Cost.Amount), "got %s", closed.Cost.Amount)

	inv, err := f.capacity.Availability(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, inv.Free.Car)
}
