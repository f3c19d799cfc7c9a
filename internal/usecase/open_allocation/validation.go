package open_allocation

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// entryClockSkew допустимое опережение часов терминала оператора
const entryClockSkew = time.Minute

// validateRequest валидирует входные данные запроса и возвращает типы ТС и оплаты
func validateRequest(req *Request) (domain.VehicleType, domain.PaymentType, error) {
	if req.OperatorID <= 0 {
		return "", "", fmt.Errorf("%w: operatorID must be positive", ErrInvalidInput)
	}
	if req.FacilityID <= 0 {
		return "", "", fmt.Errorf("%w: facilityID must be positive", ErrInvalidInput)
	}
	if req.ClientID <= 0 {
		return "", "", fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}
	if req.VehicleID <= 0 {
		return "", "", fmt.Errorf("%w: vehicleID must be positive", ErrInvalidInput)
	}

	vehicleType, err := domain.ParseVehicleType(req.VehicleType)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	paymentType, err := domain.ParsePaymentType(req.PaymentType)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if req.Observations != nil && utf8.RuneCountInString(*req.Observations) > domain.MaxObservationsLength {
		return "", "", fmt.Errorf("%w: observations must not exceed %d characters",
			ErrInvalidInput, domain.MaxObservationsLength)
	}

	return vehicleType, paymentType, nil
}

// resolveEntryDate время въезда: из запроса или текущее.
// Въезд в пределах entryClockSkew в будущем приводится к now, чтобы закрытие и расчёт "на сейчас" не падали.
func resolveEntryDate(entry *time.Time, now time.Time) (time.Time, error) {
	if entry == nil || entry.IsZero() {
		return now, nil
	}
	if entry.After(now.Add(entryClockSkew)) {
		return time.Time{}, ErrInvalidEntryDate
	}
	if entry.After(now) {
		return now, nil
	}
	return *entry, nil
}
