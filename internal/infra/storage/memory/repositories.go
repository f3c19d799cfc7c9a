package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/allocation"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/inventory"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/prices"
	"github.com/m04kA/SMC-ParkingService/internal/infra/storage/reservation"
)

// PriceRepository тарифы в памяти
type PriceRepository struct {
	store *Store
}

func (r *PriceRepository) GetByFacility(ctx context.Context, facilityID int64) (*domain.PriceSchedule, error) {
	var (
		schedule domain.PriceSchedule
		ok       bool
	)
	r.store.read(ctx, func(st *state) {
		schedule, ok = st.prices[facilityID]
	})
	if !ok {
		return nil, prices.ErrScheduleNotFound
	}
	if schedule.NightPeriod != nil {
		np := *schedule.NightPeriod
		schedule.NightPeriod = &np
	}
	return &schedule, nil
}

func (r *PriceRepository) Upsert(ctx context.Context, schedule *domain.PriceSchedule) (*domain.PriceSchedule, error) {
	err := r.store.write(ctx, func(st *state) error {
		now := r.store.now()
		if existing, ok := st.prices[schedule.FacilityID]; ok {
			schedule.CreatedAt = existing.CreatedAt
		} else {
			schedule.CreatedAt = now
		}
		schedule.UpdatedAt = now

		stored := *schedule
		if schedule.NightPeriod != nil {
			np := *schedule.NightPeriod
			stored.NightPeriod = &np
		}
		st.prices[schedule.FacilityID] = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

// InventoryRepository счётчики мест в памяти
type InventoryRepository struct {
	store *Store
}

func (r *InventoryRepository) GetByFacility(ctx context.Context, facilityID int64) (*domain.SpotInventory, error) {
	var (
		inv domain.SpotInventory
		ok  bool
	)
	r.store.read(ctx, func(st *state) {
		inv, ok = st.inventories[facilityID]
	})
	if !ok {
		return nil, inventory.ErrInventoryNotFound
	}
	return &inv, nil
}

func (r *InventoryRepository) Upsert(ctx context.Context, inv *domain.SpotInventory) (*domain.SpotInventory, error) {
	err := r.store.write(ctx, func(st *state) error {
		inv.UpdatedAt = r.store.now()
		st.inventories[inv.FacilityID] = *inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *InventoryRepository) UpdateFree(ctx context.Context, inv *domain.SpotInventory) error {
	return r.store.write(ctx, func(st *state) error {
		stored, ok := st.inventories[inv.FacilityID]
		if !ok {
			return inventory.ErrInventoryNotFound
		}
		stored.Free = inv.Free
		stored.UpdatedAt = r.store.now()
		st.inventories[inv.FacilityID] = stored
		return nil
	})
}

// ReservationRepository удержания мест в памяти
type ReservationRepository struct {
	store *Store
}

func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	err := r.store.write(ctx, func(st *state) error {
		res.CreatedAt = r.store.now()
		st.reservations[res.Token] = *res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *ReservationRepository) GetByToken(ctx context.Context, token uuid.UUID) (*domain.Reservation, error) {
	var (
		res domain.Reservation
		ok  bool
	)
	r.store.read(ctx, func(st *state) {
		res, ok = st.reservations[token]
	})
	if !ok {
		return nil, reservation.ErrReservationNotFound
	}
	return &res, nil
}

func (r *ReservationRepository) MarkReleased(ctx context.Context, token uuid.UUID, releasedAt time.Time) error {
	return r.store.write(ctx, func(st *state) error {
		res, ok := st.reservations[token]
		if !ok || res.ReleasedAt != nil {
			return reservation.ErrAlreadyReleased
		}
		res.ReleasedAt = &releasedAt
		st.reservations[token] = res
		return nil
	})
}

func (r *ReservationRepository) CountActive(ctx context.Context, facilityID int64, vehicleType domain.VehicleType) (int, error) {
	count := 0
	r.store.read(ctx, func(st *state) {
		for _, res := range st.reservations {
			if res.FacilityID == facilityID && res.VehicleType == vehicleType && res.ReleasedAt == nil {
				count++
			}
		}
	})
	return count, nil
}

// AllocationRepository аллокации в памяти
type AllocationRepository struct {
	store *Store
}

func (r *AllocationRepository) Create(ctx context.Context, a *domain.Allocation) (*domain.Allocation, error) {
	err := r.store.write(ctx, func(st *state) error {
		st.lastID++
		now := r.store.now()

		a.ID = st.lastID
		a.Status = domain.AllocationActive
		a.CreatedAt = now
		a.UpdatedAt = now
		st.allocations[a.ID] = *a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AllocationRepository) GetByID(ctx context.Context, id int64) (*domain.Allocation, error) {
	var (
		a  domain.Allocation
		ok bool
	)
	r.store.read(ctx, func(st *state) {
		a, ok = st.allocations[id]
	})
	if !ok {
		return nil, allocation.ErrAllocationNotFound
	}
	return &a, nil
}

func (r *AllocationRepository) GetByFacilityWithFilter(ctx context.Context, filter domain.AllocationsFilter) ([]*domain.Allocation, error) {
	result := make([]*domain.Allocation, 0)
	r.store.read(ctx, func(st *state) {
		for _, a := range st.allocations {
			if a.FacilityID != filter.FacilityID {
				continue
			}
			if filter.Status != nil && a.Status != *filter.Status {
				continue
			}
			a := a
			result = append(result, &a)
		}
	})

	sort.Slice(result, func(i, j int) bool {
		if !result[i].EntryDate.Equal(result[j].EntryDate) {
			return result[i].EntryDate.After(result[j].EntryDate)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *AllocationRepository) Close(ctx context.Context, id int64, params allocation.CloseParams) error {
	return r.store.write(ctx, func(st *state) error {
		a, ok := st.allocations[id]
		if !ok || a.Status != domain.AllocationActive {
			return allocation.ErrAllocationNotActive
		}

		exit := params.ExitDate
		elapsed := params.ElapsedMinutes
		amount := params.BilledAmount
		rule := params.TariffRule

		a.ExitDate = &exit
		a.ElapsedMinutes = &elapsed
		a.BilledAmount = &amount
		a.TariffRule = &rule
		a.Status = domain.AllocationClosed
		a.UpdatedAt = r.store.now()
		st.allocations[id] = a
		return nil
	})
}
