package open_allocation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	pricesRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/prices"
	"github.com/m04kA/SMC-ParkingService/internal/service/capacity"
)

// UseCase use case для открытия аллокации (въезд ТС)
type UseCase struct {
	allocationRepo AllocationRepository
	priceRepo      PriceRepository
	capacity       CapacityManager
	metrics        MetricsRecorder
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	allocationRepo AllocationRepository,
	priceRepo PriceRepository,
	capacity CapacityManager,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		allocationRepo: allocationRepo,
		priceRepo:      priceRepo,
		capacity:       capacity,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени (тесты)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute резервирует место и только после этого создаёт запись аллокации.
// Если запись не удалось сохранить, место возвращается.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("OpenAllocation: operator=%d, facility=%d, client=%d, vehicle=%d, vehicleType=%s, paymentType=%s",
		req.OperatorID, req.FacilityID, req.ClientID, req.VehicleID, req.VehicleType, req.PaymentType)

	// 1. Валидация входных данных
	vehicleType, paymentType, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("OpenAllocation: validation failed: %v", err)
		return nil, err
	}

	// 2. Время въезда
	entryDate, err := resolveEntryDate(req.EntryDate, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Warn("OpenAllocation: entry date %s rejected: %v", req.EntryDate, err)
		return nil, err
	}

	// 3. Без тарифа аллокацию не открываем: стоимость потом не посчитать
	if _, err := uc.priceRepo.GetByFacility(ctx, req.FacilityID); err != nil {
		if errors.Is(err, pricesRepo.ErrScheduleNotFound) {
			uc.logger.Warn("OpenAllocation: facility=%d has no price schedule", req.FacilityID)
			return nil, ErrScheduleNotFound
		}
		uc.logger.Error("OpenAllocation: failed to get price schedule facility=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: failed to get price schedule: %w", ErrInternal, err)
	}

	// 4. Резервируем место
	reservation, err := uc.capacity.Reserve(ctx, req.FacilityID, vehicleType)
	if err != nil {
		switch {
		case errors.Is(err, capacity.ErrNoCapacityAvailable):
			uc.metrics.CapacityRejected(string(vehicleType))
			return nil, ErrNoCapacityAvailable
		case errors.Is(err, capacity.ErrFacilityNotFound):
			return nil, ErrFacilityNotFound
		case errors.Is(err, capacity.ErrInvalidInput):
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("OpenAllocation: failed to reserve spot: %v", err)
		return nil, fmt.Errorf("%w: failed to reserve spot: %w", ErrInternal, err)
	}

	// 5. Создаём запись аллокации
	created, err := uc.allocationRepo.Create(ctx, &domain.Allocation{
		FacilityID:       req.FacilityID,
		ClientID:         req.ClientID,
		VehicleID:        req.VehicleID,
		OperatorID:       req.OperatorID,
		VehicleType:      vehicleType,
		PaymentType:      paymentType,
		EntryDate:        entryDate,
		Observations:     req.Observations,
		Status:           domain.AllocationActive,
		ReservationToken: reservation.Token,
	})
	if err != nil {
		uc.logger.Error("OpenAllocation: failed to create allocation: %v", err)

		// 5.1. Возвращаем место, даже если запрос уже отменён
		if relErr := uc.capacity.Release(context.WithoutCancel(ctx), reservation.Token); relErr != nil {
			uc.logger.Error("OpenAllocation: failed to release token=%s after create failure: %v",
				reservation.Token, relErr)
		}
		return nil, fmt.Errorf("%w: failed to create allocation: %w", ErrInternal, err)
	}

	uc.metrics.AllocationOpened(string(vehicleType), string(paymentType))
	uc.logger.Info("OpenAllocation: successfully opened allocation id=%d", created.ID)

	return fromDomain(created), nil
}
