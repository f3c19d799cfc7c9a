package close_allocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/billing"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	allocationRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/allocation"
	pricesRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/prices"
	"github.com/m04kA/SMC-ParkingService/internal/service/capacity"
)

// UseCase use case для закрытия аллокации (выезд ТС)
type UseCase struct {
	allocationRepo AllocationRepository
	priceRepo      PriceRepository
	capacity       CapacityManager
	txManager      TransactionManager
	metrics        MetricsRecorder
	timeProvider   TimeProvider
	location       *time.Location
	logger         Logger
}

// NewUseCase создает новый экземпляр use case.
// location - часовой пояс, в котором оценивается ночной период.
func NewUseCase(
	allocationRepo AllocationRepository,
	priceRepo PriceRepository,
	capacity CapacityManager,
	txManager TransactionManager,
	metrics MetricsRecorder,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		allocationRepo: allocationRepo,
		priceRepo:      priceRepo,
		capacity:       capacity,
		txManager:      txManager,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		location:       location,
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени (тесты)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute считает итоговую стоимость, закрывает аллокацию и возвращает место.
// Всё выполняется в одной serializable транзакции: при ошибке возврата места закрытие откатывается.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CloseAllocation: operator=%d, facility=%d, allocation=%d",
		req.OperatorID, req.FacilityID, req.AllocationID)

	// 1. Валидация входных данных
	if req.OperatorID <= 0 || req.AllocationID <= 0 || req.FacilityID < 0 {
		uc.logger.Warn("CloseAllocation: invalid ids operator=%d facility=%d allocation=%d",
			req.OperatorID, req.FacilityID, req.AllocationID)
		return nil, fmt.Errorf("%w: operator and allocation ids must be positive", ErrInvalidInput)
	}

	// 2. Время выезда
	exitDate := uc.timeProvider.Now()
	exitDefaulted := true
	if req.ExitDate != nil && !req.ExitDate.IsZero() {
		exitDate = *req.ExitDate
		exitDefaulted = false
	}

	var (
		closed *domain.Allocation
		cost   *domain.CostBreakdown
	)

	// 3. Закрытие и возврат места в одной транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем аллокацию
		alloc, err := uc.allocationRepo.GetByID(txCtx, req.AllocationID)
		if err != nil {
			if errors.Is(err, allocationRepo.ErrAllocationNotFound) {
				return ErrAllocationNotFound
			}
			return fmt.Errorf("%w: failed to get allocation: %w", ErrInternal, err)
		}
		if req.FacilityID != 0 && alloc.FacilityID != req.FacilityID {
			return ErrForbidden
		}
		if alloc.IsClosed() {
			return ErrAlreadyClosed
		}
		// Въезд чуть впереди часов сервера: закрытие "сейчас" считаем от въезда
		if exitDefaulted && exitDate.Before(alloc.EntryDate) {
			exitDate = alloc.EntryDate
		}

		// 3.2. Тариф парковки
		schedule, err := uc.priceRepo.GetByFacility(txCtx, alloc.FacilityID)
		if err != nil {
			if errors.Is(err, pricesRepo.ErrScheduleNotFound) {
				return ErrScheduleNotFound
			}
			return fmt.Errorf("%w: failed to get price schedule: %w", ErrInternal, err)
		}

		// 3.3. Итоговая стоимость на момент выезда
		cost, err = billing.ComputeCost(alloc.EntryDate.In(uc.location), exitDate, alloc.PaymentType, schedule, alloc.VehicleType)
		if err != nil {
			if errors.Is(err, billing.ErrInvalidTimeRange) {
				return fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
			}
			return fmt.Errorf("%w: failed to compute cost: %w", ErrInternal, err)
		}

		// 3.4. Условное закрытие: только из статуса active
		err = uc.allocationRepo.Close(txCtx, alloc.ID, allocationRepo.CloseParams{
			ExitDate:       exitDate,
			ElapsedMinutes: cost.ElapsedMinutes,
			BilledAmount:   cost.Amount,
			TariffRule:     cost.Rule,
		})
		if err != nil {
			if errors.Is(err, allocationRepo.ErrAllocationNotActive) {
				return ErrAlreadyClosed
			}
			return fmt.Errorf("%w: failed to close allocation: %w", ErrInternal, err)
		}

		// 3.5. Возвращаем место
		if err := uc.capacity.Release(txCtx, alloc.ReservationToken); err != nil {
			if !errors.Is(err, capacity.ErrAlreadyReleased) {
				return fmt.Errorf("%w: failed to release spot: %w", ErrInternal, err)
			}
			uc.logger.Warn("CloseAllocation: token of allocation id=%d was already released", alloc.ID)
		}

		alloc.ExitDate = &exitDate
		alloc.Status = domain.AllocationClosed
		closed = alloc
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrInternal):
			uc.logger.Error("CloseAllocation: allocation id=%d: %v", req.AllocationID, err)
		default:
			uc.logger.Warn("CloseAllocation: allocation id=%d: %v", req.AllocationID, err)
		}
		return nil, err
	}

	uc.metrics.AllocationClosed(string(closed.PaymentType), string(cost.Rule), cost.Amount.InexactFloat64())
	uc.logger.Info("CloseAllocation: closed allocation id=%d, elapsed=%s, amount=%s, rule=%s",
		closed.ID, cost.FormatElapsed(), cost.Amount.StringFixed(2), cost.Rule)

	return &Response{
		ID:          closed.ID,
		FacilityID:  closed.FacilityID,
		ClientID:    closed.ClientID,
		VehicleID:   closed.VehicleID,
		VehicleType: closed.VehicleType,
		PaymentType: closed.PaymentType,
		EntryDate:   closed.EntryDate,
		ExitDate:    exitDate,
		Status:      closed.Status,
		Cost:        *cost,
	}, nil
}
