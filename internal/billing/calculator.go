package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// ComputeCost вычисляет длительность и стоимость аллокации на момент evaluationTime.
// Функция чистая: текущее время передаётся явно, состояние не изменяется.
//
// Правила:
//   - hour: первый (начатый) час стоит PriceHour, каждый следующий начатый час - PriceExtraHour;
//     час, начало которого по часам попадает в ночной период, стоит NightRate
//   - day: DailyRate за каждые начатые 24 часа
//   - month: MonthlyRate независимо от длительности
//
// К результату один раз добавляется цена категории ТС (CarPrice/MotoPrice/TruckPrice).
// Ночной период оценивается в часовом поясе entryTime.
func ComputeCost(
	entryTime time.Time,
	evaluationTime time.Time,
	paymentType domain.PaymentType,
	schedule *domain.PriceSchedule,
	vehicleType domain.VehicleType,
) (*domain.CostBreakdown, error) {
	if schedule == nil {
		return nil, fmt.Errorf("%w: price schedule is required", ErrInvalidInput)
	}
	if !paymentType.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment type %q", ErrInvalidInput, paymentType)
	}
	if !vehicleType.IsValid() {
		return nil, fmt.Errorf("%w: unknown vehicle type %q", ErrInvalidInput, vehicleType)
	}
	if evaluationTime.Before(entryTime) {
		return nil, fmt.Errorf("%w: evaluation %s is before entry %s",
			ErrInvalidTimeRange, evaluationTime.Format(time.RFC3339), entryTime.Format(time.RFC3339))
	}

	elapsed := ElapsedMinutes(entryTime, evaluationTime)

	var breakdown domain.CostBreakdown
	switch paymentType {
	case domain.PaymentHour:
		breakdown = hourlyCost(entryTime, elapsed, schedule)
	case domain.PaymentDay:
		breakdown = dailyCost(elapsed, schedule)
	case domain.PaymentMonth:
		breakdown = domain.CostBreakdown{
			BilledUnits: 1,
			BaseAmount:  schedule.MonthlyRate,
			Rule:        domain.RuleMonthly,
		}
	}

	breakdown.ElapsedMinutes = elapsed
	breakdown.Surcharge = schedule.BasePrice(vehicleType)
	breakdown.Amount = breakdown.BaseAmount.Add(breakdown.Surcharge)

	return &breakdown, nil
}

// ElapsedMinutes возвращает количество полных минут между entry и evaluation (не меньше 0)
func ElapsedMinutes(entryTime, evaluationTime time.Time) int64 {
	d := evaluationTime.Sub(entryTime)
	if d < 0 {
		return 0
	}
	return int64(d / time.Minute)
}

// BilledUnits количество начатых единиц тарификации; минимум одна единица
func BilledUnits(elapsedMinutes int64, unitMinutes int64) int64 {
	if elapsedMinutes <= 0 {
		return 1
	}
	return (elapsedMinutes + unitMinutes - 1) / unitMinutes
}

func hourlyCost(entryTime time.Time, elapsed int64, schedule *domain.PriceSchedule) domain.CostBreakdown {
	hours := BilledUnits(elapsed, domain.MinutesPerHour)

	total := decimal.Zero
	var nightHours int64

	for i := int64(0); i < hours; i++ {
		hourStart := entryTime.Add(time.Duration(i) * time.Hour)

		if schedule.HasNightPeriod() && schedule.NightPeriod.Contains(hourStart) {
			total = total.Add(schedule.NightRate)
			nightHours++
			continue
		}

		if i == 0 {
			total = total.Add(schedule.PriceHour)
		} else {
			total = total.Add(schedule.PriceExtraHour)
		}
	}

	rule := domain.RuleHourly
	if nightHours > 0 {
		rule = domain.RuleHourlyNight
	}

	return domain.CostBreakdown{
		BilledUnits: hours,
		NightHours:  nightHours,
		BaseAmount:  total,
		Rule:        rule,
	}
}

func dailyCost(elapsed int64, schedule *domain.PriceSchedule) domain.CostBreakdown {
	days := BilledUnits(elapsed, domain.MinutesPerDay)

	return domain.CostBreakdown{
		BilledUnits: days,
		BaseAmount:  schedule.DailyRate.Mul(decimal.NewFromInt(days)),
		Rule:        domain.RuleDaily,
	}
}
