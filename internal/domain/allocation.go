package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationStatus represents the lifecycle state of an allocation
type AllocationStatus string

const (
	AllocationActive AllocationStatus = "active"
	AllocationClosed AllocationStatus = "closed"
)

// IsValid returns true if the status is active or closed
func (s AllocationStatus) IsValid() bool {
	return s == AllocationActive || s == AllocationClosed
}

// Allocation represents a vehicle occupying a spot category for a billed period
type Allocation struct {
	ID               int64
	FacilityID       int64
	ClientID         int64
	VehicleID        int64
	OperatorID       int64
	VehicleType      VehicleType
	PaymentType      PaymentType
	EntryDate        time.Time
	ExitDate         *time.Time
	Observations     *string
	Status           AllocationStatus
	ReservationToken uuid.UUID

	// Filled on close
	ElapsedMinutes *int64
	BilledAmount   *decimal.Decimal
	TariffRule     *TariffRule

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the allocation has not been closed
func (a *Allocation) IsActive() bool {
	return a.Status == AllocationActive
}

// IsClosed returns true if the allocation reached its terminal state
func (a *Allocation) IsClosed() bool {
	return a.Status == AllocationClosed
}

// AllocationsFilter фильтр для получения аллокаций парковки
type AllocationsFilter struct {
	FacilityID int64             // Обязательный параметр
	Status     *AllocationStatus // nil - все статусы
}

// TariffRule names the tariff that produced a cost
type TariffRule string

const (
	RuleHourly      TariffRule = "hourly"
	RuleHourlyNight TariffRule = "hourly_night"
	RuleDaily       TariffRule = "daily"
	RuleMonthly     TariffRule = "monthly"
)

// CostBreakdown is the derived cost of an allocation at a point in time
type CostBreakdown struct {
	ElapsedMinutes int64
	BilledUnits    int64 // hours or days, 1 for monthly
	NightHours     int64
	BaseAmount     decimal.Decimal // tariff part
	Surcharge      decimal.Decimal // vehicle category price
	Amount         decimal.Decimal // BaseAmount + Surcharge
	Rule           TariffRule
}

// FormatElapsed renders elapsed minutes as "HH:MM" or "Nd HH:MM"
func (c CostBreakdown) FormatElapsed() string {
	return FormatDuration(c.ElapsedMinutes)
}

// FormatDuration renders minutes as "HH:MM" or "Nd HH:MM"
func FormatDuration(minutes int64) string {
	if minutes < 0 {
		minutes = 0
	}
	days := minutes / MinutesPerDay
	hours := (minutes % MinutesPerDay) / MinutesPerHour
	mins := minutes % MinutesPerHour

	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d", days, hours, mins)
	}
	return fmt.Sprintf("%02d:%02d", hours, mins)
}

// Reservation is one held unit of spot capacity
type Reservation struct {
	Token       uuid.UUID
	FacilityID  int64
	VehicleType VehicleType
	CreatedAt   time.Time
	ReleasedAt  *time.Time
}

// IsReleased returns true if the spot was already given back
func (r *Reservation) IsReleased() bool {
	return r.ReleasedAt != nil
}
