package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/pkg/types"
)

// maxPrice первое значение, не помещающееся в NUMERIC(12, 2)
var maxPrice = decimal.New(1, 10)

// NightPeriod is a time-of-day window with a differential rate.
// Start after End means the window wraps past midnight (20:00-08:00).
type NightPeriod struct {
	Start types.TimeString
	End   types.TimeString
}

// NewNightPeriod validates both bounds and rejects an empty window
func NewNightPeriod(start, end string) (*NightPeriod, error) {
	s, err := types.NewTimeStringFromString(start)
	if err != nil {
		return nil, newValidationError("nightPeriod.start", "must be HH:MM")
	}
	e, err := types.NewTimeStringFromString(end)
	if err != nil {
		return nil, newValidationError("nightPeriod.end", "must be HH:MM")
	}
	if s == e {
		return nil, newValidationError("nightPeriod", "start and end must differ")
	}
	return &NightPeriod{Start: s, End: e}, nil
}

// WrapsMidnight returns true if the window crosses 00:00
func (p NightPeriod) WrapsMidnight() bool {
	return p.Start.IsAfter(p.End)
}

// Contains reports whether the wall-clock time of t (in t's location) falls inside the window.
// The start bound is inclusive, the end bound exclusive.
func (p NightPeriod) Contains(t time.Time) bool {
	start, errStart := p.Start.Minutes()
	end, errEnd := p.End.Minutes()
	if errStart != nil || errEnd != nil || start == end {
		return false
	}

	m := t.Hour()*MinutesPerHour + t.Minute()
	if p.WrapsMidnight() {
		return m >= start || m < end
	}
	return m >= start && m < end
}

// PriceSchedule represents the tariff configuration of a parking facility
type PriceSchedule struct {
	FacilityID     int64
	PriceHour      decimal.Decimal
	PriceExtraHour decimal.Decimal
	DailyRate      decimal.Decimal
	NightRate      decimal.Decimal
	MonthlyRate    decimal.Decimal
	CarPrice       decimal.Decimal
	MotoPrice      decimal.Decimal
	TruckPrice     decimal.Decimal
	NightPeriod    *NightPeriod // nil = no night differential
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PriceScheduleParams raw input for NewPriceSchedule.
// NightStart and NightEnd must both be empty or both be set.
type PriceScheduleParams struct {
	PriceHour      decimal.Decimal
	PriceExtraHour decimal.Decimal
	DailyRate      decimal.Decimal
	NightRate      decimal.Decimal
	MonthlyRate    decimal.Decimal
	CarPrice       decimal.Decimal
	MotoPrice      decimal.Decimal
	TruckPrice     decimal.Decimal
	NightStart     string
	NightEnd       string
}

// NewPriceSchedule builds a validated schedule; on error nothing is returned
func NewPriceSchedule(facilityID int64, p PriceScheduleParams) (*PriceSchedule, error) {
	if facilityID <= 0 {
		return nil, newValidationError("facilityId", "must be positive")
	}

	schedule := &PriceSchedule{
		FacilityID:     facilityID,
		PriceHour:      p.PriceHour,
		PriceExtraHour: p.PriceExtraHour,
		DailyRate:      p.DailyRate,
		NightRate:      p.NightRate,
		MonthlyRate:    p.MonthlyRate,
		CarPrice:       p.CarPrice,
		MotoPrice:      p.MotoPrice,
		TruckPrice:     p.TruckPrice,
	}

	switch {
	case p.NightStart == "" && p.NightEnd == "":
	case p.NightStart == "" || p.NightEnd == "":
		return nil, newValidationError("nightPeriod", "start and end must be set together")
	default:
		period, err := NewNightPeriod(p.NightStart, p.NightEnd)
		if err != nil {
			return nil, err
		}
		schedule.NightPeriod = period
	}

	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return schedule, nil
}

// Validate checks that every monetary field is non-negative and fits NUMERIC(12, 2)
func (s *PriceSchedule) Validate() error {
	prices := []struct {
		field string
		value decimal.Decimal
	}{
		{"priceHour", s.PriceHour},
		{"priceExtraHour", s.PriceExtraHour},
		{"dailyRate", s.DailyRate},
		{"nightRate", s.NightRate},
		{"monthlyRate", s.MonthlyRate},
		{"carPrice", s.CarPrice},
		{"motoPrice", s.MotoPrice},
		{"truckPrice", s.TruckPrice},
	}
	for _, price := range prices {
		if price.value.IsNegative() {
			return newValidationError(price.field, "must be non-negative")
		}
		if !price.value.Equal(price.value.Truncate(MoneyScale)) {
			return newValidationError(price.field, fmt.Sprintf("must have at most %d decimal places", MoneyScale))
		}
		if price.value.GreaterThanOrEqual(maxPrice) {
			return newValidationError(price.field, "is too large")
		}
	}

	if s.NightPeriod != nil {
		if err := s.NightPeriod.Start.Validate(); err != nil {
			return newValidationError("nightPeriod.start", "must be HH:MM")
		}
		if err := s.NightPeriod.End.Validate(); err != nil {
			return newValidationError("nightPeriod.end", "must be HH:MM")
		}
		if s.NightPeriod.Start == s.NightPeriod.End {
			return newValidationError("nightPeriod", "start and end must differ")
		}
	}
	return nil
}

// HasNightPeriod returns true if a night differential is configured
func (s *PriceSchedule) HasNightPeriod() bool {
	return s.NightPeriod != nil
}

// BasePrice returns the flat per-allocation price of the vehicle category.
// PCD and elderly spots carry no category price.
func (s *PriceSchedule) BasePrice(v VehicleType) decimal.Decimal {
	switch v {
	case VehicleCar:
		return s.CarPrice
	case VehicleMoto:
		return s.MotoPrice
	case VehicleTruck:
		return s.TruckPrice
	default:
		return decimal.Zero
	}
}
