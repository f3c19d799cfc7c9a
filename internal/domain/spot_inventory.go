package domain

import (
	"fmt"
	"time"
)

// SpotCounts holds one integer per spot category
type SpotCounts struct {
	Car     int
	Moto    int
	Truck   int
	PCD     int
	Elderly int
}

// Get returns the counter of the category (0 for unknown categories)
func (c SpotCounts) Get(v VehicleType) int {
	switch v {
	case VehicleCar:
		return c.Car
	case VehicleMoto:
		return c.Moto
	case VehicleTruck:
		return c.Truck
	case VehiclePCD:
		return c.PCD
	case VehicleElderly:
		return c.Elderly
	default:
		return 0
	}
}

// Set overwrites the counter of the category
func (c *SpotCounts) Set(v VehicleType, n int) {
	switch v {
	case VehicleCar:
		c.Car = n
	case VehicleMoto:
		c.Moto = n
	case VehicleTruck:
		c.Truck = n
	case VehiclePCD:
		c.PCD = n
	case VehicleElderly:
		c.Elderly = n
	}
}

// SpotInventory tracks free spots per category of a facility.
// Free counters change with every reservation; Capacity and TotalSpots are configuration.
type SpotInventory struct {
	FacilityID int64
	Free       SpotCounts
	Capacity   SpotCounts
	TotalSpots int
	UpdatedAt  time.Time
}

// NewSpotInventory creates an inventory with every spot free
func NewSpotInventory(facilityID int64, capacity SpotCounts, totalSpots int) (*SpotInventory, error) {
	if facilityID <= 0 {
		return nil, newValidationError("facilityId", "must be positive")
	}

	inv := &SpotInventory{
		FacilityID: facilityID,
		Free:       capacity,
		Capacity:   capacity,
		TotalSpots: totalSpots,
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Validate checks the counters against each other
func (inv *SpotInventory) Validate() error {
	if inv.TotalSpots <= 0 {
		return newValidationError("totalSpots", "must be positive")
	}

	for _, v := range VehicleTypes {
		free := inv.Free.Get(v)
		capacity := inv.Capacity.Get(v)
		field := string(v) + "Spots"

		if capacity < 0 || capacity > MaxSpotsPerCategory {
			return newValidationError(field, fmt.Sprintf("capacity must be between 0 and %d", MaxSpotsPerCategory))
		}
		if capacity > inv.TotalSpots {
			return newValidationError(field, "capacity must not exceed totalSpots")
		}
		if free < 0 {
			return newValidationError(field, "free spots must be non-negative")
		}
		if free > capacity {
			return newValidationError(field, "free spots must not exceed capacity")
		}
	}
	return nil
}

// Occupied returns the number of reserved spots in the category
func (inv *SpotInventory) Occupied(v VehicleType) int {
	return inv.Capacity.Get(v) - inv.Free.Get(v)
}

// Take reserves one spot of the category
func (inv *SpotInventory) Take(v VehicleType) error {
	free := inv.Free.Get(v)
	if free <= 0 {
		return ErrNoFreeSpot
	}
	inv.Free.Set(v, free-1)
	return nil
}

// Give returns one spot of the category
func (inv *SpotInventory) Give(v VehicleType) error {
	free := inv.Free.Get(v)
	if free >= inv.Capacity.Get(v) {
		return ErrCapacityExceeded
	}
	inv.Free.Set(v, free+1)
	return nil
}

// Reconfigure applies new capacities keeping the number of occupied spots per category.
// Shrinking a category below its occupied count is rejected.
func (inv *SpotInventory) Reconfigure(capacity SpotCounts, totalSpots int) error {
	next := SpotInventory{
		FacilityID: inv.FacilityID,
		Capacity:   capacity,
		TotalSpots: totalSpots,
	}

	for _, v := range VehicleTypes {
		occupied := inv.Occupied(v)
		if capacity.Get(v) < occupied {
			return newValidationError(string(v)+"Spots",
				fmt.Sprintf("capacity %d is below %d occupied spots", capacity.Get(v), occupied))
		}
		next.Free.Set(v, capacity.Get(v)-occupied)
	}

	if err := next.Validate(); err != nil {
		return err
	}

	inv.Free = next.Free
	inv.Capacity = next.Capacity
	inv.TotalSpots = next.TotalSpots
	return nil
}
