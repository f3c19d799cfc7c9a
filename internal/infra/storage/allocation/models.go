package allocation

import (
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/guregu/null.v4"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

const table = "allocations"

var columns = []string{
	"id",
	"facility_id",
	"client_id",
	"vehicle_id",
	"operator_id",
	"vehicle_type",
	"payment_type",
	"entry_date",
	"exit_date",
	"observations",
	"status",
	"reservation_token",
	"elapsed_minutes",
	"billed_amount",
	"tariff_rule",
	"created_at",
	"updated_at",
}

// row строка таблицы allocations с nullable колонками
type row struct {
	domain.Allocation
	exitDate       null.Time
	observations   null.String
	elapsedMinutes null.Int
	billedAmount   decimal.NullDecimal
	tariffRule     null.String
	createdAt      null.Time
	updatedAt      null.Time
}

func (r *row) dest() []interface{} {
	return []interface{}{
		&r.ID,
		&r.FacilityID,
		&r.ClientID,
		&r.VehicleID,
		&r.OperatorID,
		&r.VehicleType,
		&r.PaymentType,
		&r.EntryDate,
		&r.exitDate,
		&r.observations,
		&r.Status,
		&r.ReservationToken,
		&r.elapsedMinutes,
		&r.billedAmount,
		&r.tariffRule,
		&r.createdAt,
		&r.updatedAt,
	}
}

func (r *row) toDomain() *domain.Allocation {
	a := r.Allocation
	a.ExitDate = r.exitDate.Ptr()
	a.Observations = r.observations.Ptr()
	a.ElapsedMinutes = r.elapsedMinutes.Ptr()
	if r.billedAmount.Valid {
		amount := r.billedAmount.Decimal
		a.BilledAmount = &amount
	}
	if r.tariffRule.Valid {
		rule := domain.TariffRule(r.tariffRule.String)
		a.TariffRule = &rule
	}
	a.CreatedAt = r.createdAt.Time
	a.UpdatedAt = r.updatedAt.Time
	return &a
}

// CloseParams данные, фиксируемые при закрытии аллокации
type CloseParams struct {
	ExitDate       time.Time
	ElapsedMinutes int64
	BilledAmount   decimal.Decimal
	TariffRule     domain.TariffRule
}
