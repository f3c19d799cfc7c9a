package open_allocation

import (
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request модель запроса на открытие аллокации
type Request struct {
	OperatorID   int64      // ID оператора (X-User-ID)
	FacilityID   int64      // ID парковки
	ClientID     int64      // ID клиента
	VehicleID    int64      // ID транспортного средства
	VehicleType  string     // car, moto, truck, pcd, elderly
	PaymentType  string     // hour, day, month
	EntryDate    *time.Time // nil - текущее время
	Observations *string    // Заметки оператора (опционально)
}

// Response модель ответа с открытой аллокацией
type Response struct {
	ID           int64
	FacilityID   int64
	ClientID     int64
	VehicleID    int64
	OperatorID   int64
	VehicleType  domain.VehicleType
	PaymentType  domain.PaymentType
	EntryDate    time.Time
	Observations *string
	Status       domain.AllocationStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func fromDomain(a *domain.Allocation) *Response {
	return &Response{
		ID:           a.ID,
		FacilityID:   a.FacilityID,
		ClientID:     a.ClientID,
		VehicleID:    a.VehicleID,
		OperatorID:   a.OperatorID,
		VehicleType:  a.VehicleType,
		PaymentType:  a.PaymentType,
		EntryDate:    a.EntryDate,
		Observations: a.Observations,
		Status:       a.Status,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
