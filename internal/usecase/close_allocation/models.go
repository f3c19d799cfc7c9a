package close_allocation

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request модель запроса на закрытие аллокации
type Request struct {
	OperatorID   int64      // ID оператора (X-User-ID)
	FacilityID   int64      // 0 - без проверки парковки
	AllocationID int64      // ID аллокации
	ExitDate     *time.Time // nil - текущее время
}

// Response закрытая аллокация с итоговой стоимостью
type Response struct {
	ID          int64
	FacilityID  int64
	ClientID    int64
	VehicleID   int64
	VehicleType domain.VehicleType
	PaymentType domain.PaymentType
	EntryDate   time.Time
	ExitDate    time.Time
	Status      domain.AllocationStatus
	Cost        domain.CostBreakdown
}
