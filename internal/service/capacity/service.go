package capacity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	inventoryRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/inventory"
	reservationRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/reservation"
)

// Service учёт свободных мест парковки.
// Каждое изменение счётчика выполняется в serializable транзакции под блокировкой строки парковки,
// поэтому параллельные Reserve не выдают больше мест, чем свободно.
type Service struct {
	inventoryRepo   InventoryRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

func NewService(
	inventoryRepo InventoryRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		inventoryRepo:   inventoryRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (тесты)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// Reserve занимает одно место категории и возвращает удержание с новым токеном
func (s *Service) Reserve(ctx context.Context, facilityID int64, vehicleType domain.VehicleType) (*domain.Reservation, error) {
	if facilityID <= 0 || !vehicleType.IsValid() {
		return nil, fmt.Errorf("%w: facility=%d vehicleType=%q", ErrInvalidInput, facilityID, vehicleType)
	}

	var reservation *domain.Reservation

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Блокируем строку счётчиков парковки
		inv, err := s.inventoryRepo.GetByFacility(txCtx, facilityID)
		if err != nil {
			if errors.Is(err, inventoryRepo.ErrInventoryNotFound) {
				return ErrFacilityNotFound
			}
			return fmt.Errorf("%w: Reserve - get inventory: %w", ErrInternal, err)
		}

		// 2. Уменьшаем счётчик категории
		if err := inv.Take(vehicleType); err != nil {
			if errors.Is(err, domain.ErrNoFreeSpot) {
				return ErrNoCapacityAvailable
			}
			return fmt.Errorf("%w: Reserve - take spot: %w", ErrInternal, err)
		}

		if err := s.inventoryRepo.UpdateFree(txCtx, inv); err != nil {
			return fmt.Errorf("%w: Reserve - update inventory: %w", ErrInternal, err)
		}

		// 3. Фиксируем удержание
		reservation, err = s.reservationRepo.Create(txCtx, &domain.Reservation{
			Token:       uuid.New(),
			FacilityID:  facilityID,
			VehicleType: vehicleType,
		})
		if err != nil {
			return fmt.Errorf("%w: Reserve - create reservation: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrNoCapacityAvailable):
			s.logger.Warn("Reserve: no free %s spots at facility=%d", vehicleType, facilityID)
		case errors.Is(err, ErrFacilityNotFound):
			s.logger.Warn("Reserve: facility=%d has no spot inventory", facilityID)
		default:
			s.logger.Error("Reserve: facility=%d vehicleType=%s: %v", facilityID, vehicleType, err)
		}
		return nil, err
	}

	s.logger.Info("Reserve: reserved %s spot at facility=%d", vehicleType, facilityID)
	return reservation, nil
}

// Release возвращает место по токену. Повторный вызов с тем же токеном даёт ErrAlreadyReleased.
func (s *Service) Release(ctx context.Context, token uuid.UUID) error {
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Блокируем удержание
		res, err := s.reservationRepo.GetByToken(txCtx, token)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: Release - get reservation: %w", ErrInternal, err)
		}
		if res.IsReleased() {
			return ErrAlreadyReleased
		}

		// 2. Блокируем счётчики и возвращаем место
		inv, err := s.inventoryRepo.GetByFacility(txCtx, res.FacilityID)
		if err != nil {
			if errors.Is(err, inventoryRepo.ErrInventoryNotFound) {
				return ErrFacilityNotFound
			}
			return fmt.Errorf("%w: Release - get inventory: %w", ErrInternal, err)
		}

		if err := inv.Give(res.VehicleType); err != nil {
			if !errors.Is(err, domain.ErrCapacityExceeded) {
				return fmt.Errorf("%w: Release - give spot: %w", ErrInternal, err)
			}
			// Счётчик уже равен ёмкости: удержание всё равно закрываем
			s.logger.Warn("Release: %s counter of facility=%d already at capacity", res.VehicleType, res.FacilityID)
		}

		// 3. Закрываем удержание
		if err := s.reservationRepo.MarkReleased(txCtx, token, s.timeProvider.Now()); err != nil {
			if errors.Is(err, reservationRepo.ErrAlreadyReleased) {
				return ErrAlreadyReleased
			}
			return fmt.Errorf("%w: Release - mark released: %w", ErrInternal, err)
		}

		if err := s.inventoryRepo.UpdateFree(txCtx, inv); err != nil {
			return fmt.Errorf("%w: Release - update inventory: %w", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrAlreadyReleased) || errors.Is(err, ErrReservationNotFound) {
			s.logger.Warn("Release: token=%s: %v", token, err)
		} else {
			s.logger.Error("Release: token=%s: %v", token, err)
		}
		return err
	}

	s.logger.Info("Release: token=%s released", token)
	return nil
}

// Availability снимок свободных мест парковки
func (s *Service) Availability(ctx context.Context, facilityID int64) (*domain.SpotInventory, error) {
	inv, err := s.inventoryRepo.GetByFacility(ctx, facilityID)
	if err != nil {
		if errors.Is(err, inventoryRepo.ErrInventoryNotFound) {
			return nil, ErrFacilityNotFound
		}
		s.logger.Error("Availability: facility=%d: %v", facilityID, err)
		return nil, fmt.Errorf("%w: Availability - get inventory: %w", ErrInternal, err)
	}
	return inv, nil
}
