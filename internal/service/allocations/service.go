package allocations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/billing"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	allocationRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/allocation"
	pricesRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/prices"
	"github.com/m04kA/SMC-ParkingService/internal/service/allocations/models"
)

// Service сервис чтения аллокаций и расчёта текущей стоимости
type Service struct {
	allocationRepo AllocationRepository
	priceRepo      PriceRepository
	timeProvider   TimeProvider
	location       *time.Location
	currencySymbol string
	logger         Logger
}

// NewService создает новый экземпляр сервиса аллокаций.
// location - часовой пояс ночного тарифа, currencySymbol - символ валюты в отформатированных суммах.
func NewService(
	allocationRepo AllocationRepository,
	priceRepo PriceRepository,
	location *time.Location,
	currencySymbol string,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		allocationRepo: allocationRepo,
		priceRepo:      priceRepo,
		timeProvider:   &RealTimeProvider{},
		location:       location,
		currencySymbol: currencySymbol,
		logger:         logger,
	}
}

// WithTimeProvider подменяет источник времени (тесты)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает аллокацию по ID.
// Для активной аллокации добавляется стоимость на текущий момент.
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AllocationResponse, error) {
	s.logger.Info("GetByID: fetching allocation id=%d", id)

	alloc, err := s.getAllocation(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	resp := models.FromDomainAllocation(alloc, s.currencySymbol)
	if alloc.IsActive() {
		now := clampToEntry(s.timeProvider.Now(), alloc)
		cost, err := s.computeRunningCost(ctx, alloc, now)
		switch {
		case err == nil:
			resp.Cost = models.FromDomainCost(cost, now, s.currencySymbol)
		case errors.Is(err, ErrScheduleNotFound):
			// Тариф удалён: отдаём аллокацию без стоимости
			s.logger.Warn("GetByID: facility=%d has no schedule, cost omitted", alloc.FacilityID)
		default:
			return nil, err
		}
	}

	return resp, nil
}

// CurrentCost считает стоимость активной аллокации на момент now.
// Нулевое now означает текущее время.
func (s *Service) CurrentCost(ctx context.Context, id int64, now time.Time) (*models.CostResponse, error) {
	defaulted := now.IsZero()
	if defaulted {
		now = s.timeProvider.Now()
	}
	s.logger.Info("CurrentCost: allocation id=%d at %s", id, now.Format(time.RFC3339))

	alloc, err := s.getAllocation(ctx, "CurrentCost", id)
	if err != nil {
		return nil, err
	}

	if !alloc.IsActive() {
		s.logger.Warn("CurrentCost: allocation id=%d is %s", id, alloc.Status)
		return nil, ErrAllocationNotActive
	}
	if defaulted {
		now = clampToEntry(now, alloc)
	}

	cost, err := s.computeRunningCost(ctx, alloc, now)
	if err != nil {
		return nil, err
	}

	return models.FromDomainCost(cost, now, s.currencySymbol), nil
}

// ListByFacility получает аллокации парковки, опционально по статусу.
// Активные дополняются текущей стоимостью, если у парковки есть тариф.
func (s *Service) ListByFacility(ctx context.Context, req *models.GetFacilityAllocationsRequest) (*models.AllocationListResponse, error) {
	s.logger.Info("ListByFacility: facility=%d, status=%v by user=%d", req.FacilityID, req.Status, req.UserID)

	if req.FacilityID <= 0 {
		return nil, fmt.Errorf("%w: facilityID must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListByFacility: invalid status=%v", req.Status)
		return nil, fmt.Errorf("%w: status must be active or closed", ErrInvalidInput)
	}

	list, err := s.allocationRepo.GetByFacilityWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ListByFacility: repository error for facility=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: ListByFacility - repository error: %v", ErrInternal, err)
	}

	schedule, err := s.priceRepo.GetByFacility(ctx, req.FacilityID)
	if err != nil && !errors.Is(err, pricesRepo.ErrScheduleNotFound) {
		s.logger.Error("ListByFacility: failed to get schedule for facility=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: ListByFacility - get schedule: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	result := make([]models.AllocationResponse, 0, len(list))
	for _, alloc := range list {
		resp := models.FromDomainAllocation(alloc, s.currencySymbol)
		if alloc.IsActive() && schedule != nil {
			at := clampToEntry(now, alloc)
			cost, err := billing.ComputeCost(alloc.EntryDate.In(s.location), at, alloc.PaymentType, schedule, alloc.VehicleType)
			if err != nil {
				s.logger.Warn("ListByFacility: cost omitted for allocation id=%d: %v", alloc.ID, err)
			} else {
				resp.Cost = models.FromDomainCost(cost, at, s.currencySymbol)
			}
		}
		result = append(result, *resp)
	}

	s.logger.Info("ListByFacility: found %d allocations for facility=%d", len(result), req.FacilityID)
	return &models.AllocationListResponse{
		Allocations: result,
		Total:       len(result),
	}, nil
}

func (s *Service) getAllocation(ctx context.Context, op string, id int64) (*domain.Allocation, error) {
	alloc, err := s.allocationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, allocationRepo.ErrAllocationNotFound) {
			s.logger.Warn("%s: allocation id=%d not found", op, id)
			return nil, ErrAllocationNotFound
		}
		s.logger.Error("%s: repository error for allocation id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return alloc, nil
}

func (s *Service) computeRunningCost(ctx context.Context, alloc *domain.Allocation, now time.Time) (*domain.CostBreakdown, error) {
	schedule, err := s.priceRepo.GetByFacility(ctx, alloc.FacilityID)
	if err != nil {
		if errors.Is(err, pricesRepo.ErrScheduleNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("computeRunningCost: failed to get schedule for facility=%d: %v", alloc.FacilityID, err)
		return nil, fmt.Errorf("%w: get schedule: %v", ErrInternal, err)
	}

	cost, err := billing.ComputeCost(alloc.EntryDate.In(s.location), now, alloc.PaymentType, schedule, alloc.VehicleType)
	if err != nil {
		if errors.Is(err, billing.ErrInvalidTimeRange) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		s.logger.Error("computeRunningCost: allocation id=%d: %v", alloc.ID, err)
		return nil, fmt.Errorf("%w: compute cost: %v", ErrInternal, err)
	}
	return cost, nil
}

// clampToEntry не даёт моменту оценки оказаться раньше въезда (расхождение часов)
func clampToEntry(now time.Time, alloc *domain.Allocation) time.Time {
	if now.Before(alloc.EntryDate) {
		return alloc.EntryDate
	}
	return now
}
