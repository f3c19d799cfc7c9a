package open_allocation

import (
	"time"

	openAllocation "github.com/m04kA/SMC-ParkingService/internal/usecase/open_allocation"
)

// OpenAllocationRequest HTTP request model
type OpenAllocationRequest struct {
	FacilityID   int64   `json:"facilityId"`
	ClientID     int64   `json:"clientId"`
	VehicleID    int64   `json:"vehicleId"`
	VehicleType  string  `json:"vehicleType"`         // car, moto, truck, pcd, elderly
	PaymentType  string  `json:"paymentType"`         // hour, day, month
	EntryDate    *string `json:"entryDate,omitempty"` // RFC3339, по умолчанию - сейчас
	Observations *string `json:"observations,omitempty"`
}

// AllocationResponse HTTP response model
type AllocationResponse struct {
	ID           int64   `json:"id"`
	FacilityID   int64   `json:"facilityId"`
	ClientID     int64   `json:"clientId"`
	VehicleID    int64   `json:"vehicleId"`
	OperatorID   int64   `json:"operatorId"`
	VehicleType  string  `json:"vehicleType"`
	PaymentType  string  `json:"paymentType"`
	EntryDate    string  `json:"entryDate"`
	Observations *string `json:"observations,omitempty"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *OpenAllocationRequest) ToUseCaseRequest(operatorID int64) (*openAllocation.Request, error) {
	req := &openAllocation.Request{
		OperatorID:   operatorID,
		FacilityID:   r.FacilityID,
		ClientID:     r.ClientID,
		VehicleID:    r.VehicleID,
		VehicleType:  r.VehicleType,
		PaymentType:  r.PaymentType,
		Observations: r.Observations,
	}

	if r.EntryDate != nil && *r.EntryDate != "" {
		entry, err := time.Parse(time.RFC3339, *r.EntryDate)
		if err != nil {
			return nil, err
		}
		req.EntryDate = &entry
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *openAllocation.Response) *AllocationResponse {
	return &AllocationResponse{
		ID:           resp.ID,
		FacilityID:   resp.FacilityID,
		ClientID:     resp.ClientID,
		VehicleID:    resp.VehicleID,
		OperatorID:   resp.OperatorID,
		VehicleType:  string(resp.VehicleType),
		PaymentType:  string(resp.PaymentType),
		EntryDate:    resp.EntryDate.Format(time.RFC3339),
		Observations: resp.Observations,
		Status:       string(resp.Status),
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    resp.UpdatedAt.Format(time.RFC3339),
	}
}
