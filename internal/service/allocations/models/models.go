package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	"github.com/m04kA/SMC-ParkingService/pkg/money"
)

// GetFacilityAllocationsRequest запрос на получение аллокаций парковки
type GetFacilityAllocationsRequest struct {
	UserID     int64   `json:"userId"`
	FacilityID int64   `json:"facilityId"`
	Status     *string `json:"status,omitempty"` // active, closed; nil - все
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetFacilityAllocationsRequest) ToDomainFilter() (domain.AllocationsFilter, error) {
	filter := domain.AllocationsFilter{FacilityID: r.FacilityID}
	if r.Status != nil {
		status := domain.AllocationStatus(*r.Status)
		if !status.IsValid() {
			return filter, domain.ErrValidation
		}
		filter.Status = &status
	}
	return filter, nil
}

// CostResponse стоимость аллокации на момент evaluatedAt
type CostResponse struct {
	ElapsedMinutes        int64           `json:"elapsedMinutes"`
	Elapsed               string          `json:"elapsed"` // HH:MM или Nd HH:MM
	BilledAmount          decimal.Decimal `json:"billedAmount"`
	BilledAmountFormatted string          `json:"billedAmountFormatted"`
	TariffRule            string          `json:"tariffRule"`
	EvaluatedAt           time.Time       `json:"evaluatedAt"`
}

// AllocationResponse ответ с аллокацией.
// Токен резервирования наружу не отдаётся.
type AllocationResponse struct {
	ID           int64         `json:"id"`
	FacilityID   int64         `json:"facilityId"`
	ClientID     int64         `json:"clientId"`
	VehicleID    int64         `json:"vehicleId"`
	OperatorID   int64         `json:"operatorId"`
	VehicleType  string        `json:"vehicleType"`
	PaymentType  string        `json:"paymentType"`
	EntryDate    time.Time     `json:"entryDate"`
	ExitDate     *time.Time    `json:"exitDate,omitempty"`
	Observations *string       `json:"observations,omitempty"`
	Status       string        `json:"status"`
	Cost         *CostResponse `json:"cost,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// AllocationListResponse список аллокаций
type AllocationListResponse struct {
	Allocations []AllocationResponse `json:"allocations"`
	Total       int                  `json:"total"`
}

// FromDomainAllocation конвертирует domain модель в response.
// Для закрытой аллокации стоимость берётся из сохранённых полей.
func FromDomainAllocation(a *domain.Allocation, currencySymbol string) *AllocationResponse {
	resp := &AllocationResponse{
		ID:           a.ID,
		FacilityID:   a.FacilityID,
		ClientID:     a.ClientID,
		VehicleID:    a.VehicleID,
		OperatorID:   a.OperatorID,
		VehicleType:  string(a.VehicleType),
		PaymentType:  string(a.PaymentType),
		EntryDate:    a.EntryDate,
		ExitDate:     a.ExitDate,
		Observations: a.Observations,
		Status:       string(a.Status),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}

	if a.IsClosed() && a.ElapsedMinutes != nil && a.BilledAmount != nil && a.TariffRule != nil && a.ExitDate != nil {
		resp.Cost = &CostResponse{
			ElapsedMinutes:        *a.ElapsedMinutes,
			Elapsed:               domain.FormatDuration(*a.ElapsedMinutes),
			BilledAmount:          *a.BilledAmount,
			BilledAmountFormatted: money.Format(*a.BilledAmount, currencySymbol),
			TariffRule:            string(*a.TariffRule),
			EvaluatedAt:           *a.ExitDate,
		}
	}

	return resp
}

// FromDomainCost конвертирует расчёт стоимости в response
func FromDomainCost(c *domain.CostBreakdown, evaluatedAt time.Time, currencySymbol string) *CostResponse {
	return &CostResponse{
		ElapsedMinutes:        c.ElapsedMinutes,
		Elapsed:               c.FormatElapsed(),
		BilledAmount:          c.Amount,
		BilledAmountFormatted: money.Format(c.Amount, currencySymbol),
		TariffRule:            string(c.Rule),
		EvaluatedAt:           evaluatedAt,
	}
}
