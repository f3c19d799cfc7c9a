package close_allocation

import (
	"time"

	"github.com/shopspring/decimal"

	closeAllocation "github.com/m04kA/SMC-ParkingService/internal/usecase/close_allocation"
	"github.com/m04kA/SMC-ParkingService/pkg/money"
)

// CloseAllocationRequest HTTP request model, тело необязательно
type CloseAllocationRequest struct {
	FacilityID int64   `json:"facilityId,omitempty"`
	ExitDate   *string `json:"exitDate,omitempty"` // RFC3339, по умолчанию - сейчас
}

// CostResponse итоговая стоимость
type CostResponse struct {
	ElapsedMinutes        int64           `json:"elapsedMinutes"`
	Elapsed               string          `json:"elapsed"`
	BilledAmount          decimal.Decimal `json:"billedAmount"`
	BilledAmountFormatted string          `json:"billedAmountFormatted"`
	TariffRule            string          `json:"tariffRule"`
}

// ClosedAllocationResponse HTTP response model
type ClosedAllocationResponse struct {
	ID          int64        `json:"id"`
	FacilityID  int64        `json:"facilityId"`
	ClientID    int64        `json:"clientId"`
	VehicleID   int64        `json:"vehicleId"`
	VehicleType string       `json:"vehicleType"`
	PaymentType string       `json:"paymentType"`
	EntryDate   string       `json:"entryDate"`
	ExitDate    string       `json:"exitDate"`
	Status      string       `json:"status"`
	Cost        CostResponse `json:"cost"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CloseAllocationRequest) ToUseCaseRequest(operatorID, allocationID int64) (*closeAllocation.Request, error) {
	req := &closeAllocation.Request{
		OperatorID:   operatorID,
		FacilityID:   r.FacilityID,
		AllocationID: allocationID,
	}

	if r.ExitDate != nil && *r.ExitDate != "" {
		exit, err := time.Parse(time.RFC3339, *r.ExitDate)
		if err != nil {
			return nil, err
		}
		req.ExitDate = &exit
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *closeAllocation.Response, currencySymbol string) *ClosedAllocationResponse {
	return &ClosedAllocationResponse{
		ID:          resp.ID,
		FacilityID:  resp.FacilityID,
		ClientID:    resp.ClientID,
		VehicleID:   resp.VehicleID,
		VehicleType: string(resp.VehicleType),
		PaymentType: string(resp.PaymentType),
		EntryDate:   resp.EntryDate.Format(time.RFC3339),
		ExitDate:    resp.ExitDate.Format(time.RFC3339),
		Status:      string(resp.Status),
		Cost: CostResponse{
			ElapsedMinutes:        resp.Cost.ElapsedMinutes,
			Elapsed:               resp.Cost.FormatElapsed(),
			BilledAmount:          resp.Cost.Amount,
			BilledAmountFormatted: money.Format(resp.Cost.Amount, currencySymbol),
			TariffRule:            string(resp.Cost.Rule),
		},
	}
}
