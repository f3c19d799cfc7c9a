package facilities

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-ParkingService/internal/service/facilities/models"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

func newService() (*Service, *memory.Store) {
	store := memory.NewStore()
	return NewService(store.Prices(), store.Inventory(), store.TxManager(), logger.NewNop()), store
}

func pricesRequest() *models.UpsertPricesRequest {
	return &models.UpsertPricesRequest{
		UserID:         1,
		FacilityID:     7,
		PriceHour:      decimal.NewFromInt(10),
		PriceExtraHour: decimal.NewFromInt(4),
		DailyRate:      decimal.NewFromInt(50),
		NightRate:      decimal.NewFromInt(2),
		MonthlyRate:    decimal.NewFromInt(300),
		CarPrice:       decimal.NewFromInt(1),
		NightPeriod:    &models.NightPeriod{Start: "20:00", End: "08:00"},
	}
}

func TestPriceSchedule_UpsertAndGet(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.GetPriceSchedule(ctx, 7)
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	saved, err := svc.UpsertPriceSchedule(ctx, pricesRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(7), saved.FacilityID)
	require.NotNil(t, saved.NightPeriod)
	assert.Equal(t, "20:00", saved.NightPeriod.Start)

	req := pricesRequest()
	req.NightPeriod = nil
	req.PriceHour = decimal.NewFromInt(12)
	_, err = svc.UpsertPriceSchedule(ctx, req)
	require.NoError(t, err)

	got, err := svc.GetPriceSchedule(ctx, 7)
	require.NoError(t, err)
	assert.True(t, got.PriceHour.Equal(decimal.NewFromInt(12)))
	assert.Nil(t, got.NightPeriod)
}

func TestUpsertPriceSchedule_Validation(t *testing.T) {
	svc, _ := newService()

	req := pricesRequest()
	req.NightRate = decimal.NewFromInt(-1)

	_, err := svc.UpsertPriceSchedule(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "nightRate", vErr.Field)
}

func TestConfigureSpots_PreservesOccupied(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	_, err := svc.GetSpots(ctx, 7)
	assert.ErrorIs(t, err, ErrSpotsNotConfigured)

	spots, err := svc.ConfigureSpots(ctx, &models.ConfigureSpotsRequest{FacilityID: 7, CarSpots: 3, PCDSpots: 1, TotalSpots: 5})
	require.NoError(t, err)
	assert.Equal(t, 3, spots.Free.Car)

	// одно место занято
	inv, err := store.Inventory().GetByFacility(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, inv.Take(domain.VehicleCar))
	require.NoError(t, store.Inventory().UpdateFree(ctx, inv))

	spots, err = svc.ConfigureSpots(ctx, &models.ConfigureSpotsRequest{FacilityID: 7, CarSpots: 5, PCDSpots: 1, TotalSpots: 6})
	require.NoError(t, err)
	assert.Equal(t, 4, spots.Free.Car)
	assert.Equal(t, 1, spots.Occupied.Car)
	assert.Equal(t, 6, spots.TotalSpots)

	_, err = svc.ConfigureSpots(ctx, &models.ConfigureSpotsRequest{FacilityID: 7, CarSpots: 0, TotalSpots: 6})
	assert.ErrorIs(t, err, ErrInvalidInput, "cannot drop below occupied spots")

	got, err := svc.GetSpots(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Capacity.Car, "rejected reconfiguration leaves inventory untouched")
}

func TestConfigureSpots_Validation(t *testing.T) {
	svc, _ := newService()

	_, err := svc.ConfigureSpots(context.Background(), &models.ConfigureSpotsRequest{FacilityID: 7, CarSpots: 10, TotalSpots: 5})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
