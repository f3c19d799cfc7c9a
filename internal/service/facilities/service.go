package facilities

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	inventoryRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/inventory"
	pricesRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/prices"
	"github.com/m04kA/SMC-ParkingService/internal/service/facilities/models"
)

// Service сервис настройки парковки: тариф и места по категориям
type Service struct {
	priceRepo     PriceRepository
	inventoryRepo InventoryRepository
	txManager     TransactionManager
	logger        Logger
}

// NewService создает новый экземпляр сервиса парковок
func NewService(
	priceRepo PriceRepository,
	inventoryRepo InventoryRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		priceRepo:     priceRepo,
		inventoryRepo: inventoryRepo,
		txManager:     txManager,
		logger:        logger,
	}
}

// GetPriceSchedule получает тариф парковки
// Публичный метод - доступен всем
func (s *Service) GetPriceSchedule(ctx context.Context, facilityID int64) (*models.PriceScheduleResponse, error) {
	s.logger.Info("GetPriceSchedule: fetching schedule for facility=%d", facilityID)

	schedule, err := s.priceRepo.GetByFacility(ctx, facilityID)
	if err != nil {
		if errors.Is(err, pricesRepo.ErrScheduleNotFound) {
			s.logger.Warn("GetPriceSchedule: facility=%d has no schedule", facilityID)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("GetPriceSchedule: repository error for facility=%d: %v", facilityID, err)
		return nil, fmt.Errorf("%w: GetPriceSchedule - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedule(schedule), nil
}

// UpsertPriceSchedule создаёт или полностью заменяет тариф парковки.
// Действующие аллокации пересчитываются по новому тарифу при следующем запросе стоимости.
func (s *Service) UpsertPriceSchedule(ctx context.Context, req *models.UpsertPricesRequest) (*models.PriceScheduleResponse, error) {
	s.logger.Info("UpsertPriceSchedule: facility=%d by user=%d", req.FacilityID, req.UserID)

	// 1. Валидируем и строим тариф
	schedule, err := domain.NewPriceSchedule(req.FacilityID, req.ToDomainParams())
	if err != nil {
		s.logger.Warn("UpsertPriceSchedule: validation failed: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// 2. Сохраняем
	saved, err := s.priceRepo.Upsert(ctx, schedule)
	if err != nil {
		s.logger.Error("UpsertPriceSchedule: repository error for facility=%d: %v", req.FacilityID, err)
		return nil, fmt.Errorf("%w: UpsertPriceSchedule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertPriceSchedule: schedule saved for facility=%d", req.FacilityID)
	return models.FromDomainSchedule(saved), nil
}

// GetSpots снимок мест парковки
// Публичный метод - доступен всем
func (s *Service) GetSpots(ctx context.Context, facilityID int64) (*models.SpotsResponse, error) {
	s.logger.Info("GetSpots: fetching spots for facility=%d", facilityID)

	inv, err := s.inventoryRepo.GetByFacility(ctx, facilityID)
	if err != nil {
		if errors.Is(err, inventoryRepo.ErrInventoryNotFound) {
			s.logger.Warn("GetSpots: facility=%d has no spot inventory", facilityID)
			return nil, ErrSpotsNotConfigured
		}
		s.logger.Error("GetSpots: repository error for facility=%d: %v", facilityID, err)
		return nil, fmt.Errorf("%w: GetSpots - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainInventory(inv), nil
}

// ConfigureSpots задаёт ёмкости категорий.
// Для новой парковки все места свободны; для существующей число занятых мест сохраняется,
// а уменьшение ёмкости ниже занятых отклоняется.
func (s *Service) ConfigureSpots(ctx context.Context, req *models.ConfigureSpotsRequest) (*models.SpotsResponse, error) {
	s.logger.Info("ConfigureSpots: facility=%d by user=%d, total=%d",
		req.FacilityID, req.UserID, req.TotalSpots)

	var result *domain.SpotInventory

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Блокируем текущие счётчики
		inv, err := s.inventoryRepo.GetByFacility(txCtx, req.FacilityID)
		if err != nil && !errors.Is(err, inventoryRepo.ErrInventoryNotFound) {
			return fmt.Errorf("%w: ConfigureSpots - get inventory: %w", ErrInternal, err)
		}

		// 2. Создаём или перенастраиваем
		if inv == nil {
			inv, err = domain.NewSpotInventory(req.FacilityID, req.ToDomainCapacity(), req.TotalSpots)
		} else {
			err = inv.Reconfigure(req.ToDomainCapacity(), req.TotalSpots)
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}

		// 3. Сохраняем
		result, err = s.inventoryRepo.Upsert(txCtx, inv)
		if err != nil {
			return fmt.Errorf("%w: ConfigureSpots - upsert inventory: %w", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			s.logger.Warn("ConfigureSpots: facility=%d validation failed: %v", req.FacilityID, err)
		} else {
			s.logger.Error("ConfigureSpots: facility=%d: %v", req.FacilityID, err)
		}
		return nil, err
	}

	s.logger.Info("ConfigureSpots: facility=%d configured", req.FacilityID)
	return models.FromDomainInventory(result), nil
}
