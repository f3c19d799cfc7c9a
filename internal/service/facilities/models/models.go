package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Request модели

// NightPeriod ночной период тарифа
type NightPeriod struct {
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`   // HH:MM, может быть раньше start (через полночь)
}

// UpsertPricesRequest запрос на создание или замену тарифа парковки
type UpsertPricesRequest struct {
	UserID         int64           `json:"-"`
	FacilityID     int64           `json:"-"`
	PriceHour      decimal.Decimal `json:"priceHour"`
	PriceExtraHour decimal.Decimal `json:"priceExtraHour"`
	DailyRate      decimal.Decimal `json:"dailyRate"`
	NightRate      decimal.Decimal `json:"nightRate"`
	MonthlyRate    decimal.Decimal `json:"monthlyRate"`
	CarPrice       decimal.Decimal `json:"carPrice"`
	MotoPrice      decimal.Decimal `json:"motoPrice"`
	TruckPrice     decimal.Decimal `json:"truckPrice"`
	NightPeriod    *NightPeriod    `json:"nightPeriod,omitempty"`
}

// ToDomainParams конвертирует request в параметры конструктора тарифа
func (r *UpsertPricesRequest) ToDomainParams() domain.PriceScheduleParams {
	params := domain.PriceScheduleParams{
		PriceHour:      r.PriceHour,
		PriceExtraHour: r.PriceExtraHour,
		DailyRate:      r.DailyRate,
		NightRate:      r.NightRate,
		MonthlyRate:    r.MonthlyRate,
		CarPrice:       r.CarPrice,
		MotoPrice:      r.MotoPrice,
		TruckPrice:     r.TruckPrice,
	}
	if r.NightPeriod != nil {
		params.NightStart = r.NightPeriod.Start
		params.NightEnd = r.NightPeriod.End
	}
	return params
}

// ConfigureSpotsRequest запрос на настройку мест парковки
type ConfigureSpotsRequest struct {
	UserID       int64 `json:"-"`
	FacilityID   int64 `json:"-"`
	CarSpots     int   `json:"carSpots"`
	MotoSpots    int   `json:"motoSpots"`
	TruckSpots   int   `json:"truckSpots"`
	PCDSpots     int   `json:"pcdSpots"`
	ElderlySpots int   `json:"elderlySpots"`
	TotalSpots   int   `json:"totalSpots"`
}

// ToDomainCapacity ёмкости по категориям
func (r *ConfigureSpotsRequest) ToDomainCapacity() domain.SpotCounts {
	return domain.SpotCounts{
		Car:     r.CarSpots,
		Moto:    r.MotoSpots,
		Truck:   r.TruckSpots,
		PCD:     r.PCDSpots,
		Elderly: r.ElderlySpots,
	}
}

// Response модели

// PriceScheduleResponse тариф парковки. Суммы сериализуются строками.
type PriceScheduleResponse struct {
	FacilityID     int64           `json:"facilityId"`
	PriceHour      decimal.Decimal `json:"priceHour"`
	PriceExtraHour decimal.Decimal `json:"priceExtraHour"`
	DailyRate      decimal.Decimal `json:"dailyRate"`
	NightRate      decimal.Decimal `json:"nightRate"`
	MonthlyRate    decimal.Decimal `json:"monthlyRate"`
	CarPrice       decimal.Decimal `json:"carPrice"`
	MotoPrice      decimal.Decimal `json:"motoPrice"`
	TruckPrice     decimal.Decimal `json:"truckPrice"`
	NightPeriod    *NightPeriod    `json:"nightPeriod,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// SpotCounts счётчики по категориям
type SpotCounts struct {
	Car     int `json:"car"`
	Moto    int `json:"moto"`
	Truck   int `json:"truck"`
	PCD     int `json:"pcd"`
	Elderly int `json:"elderly"`
}

// SpotsResponse снимок мест парковки
type SpotsResponse struct {
	FacilityID int64      `json:"facilityId"`
	TotalSpots int        `json:"totalSpots"`
	Free       SpotCounts `json:"free"`
	Capacity   SpotCounts `json:"capacity"`
	Occupied   SpotCounts `json:"occupied"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Методы конвертации

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(s *domain.PriceSchedule) *PriceScheduleResponse {
	if s == nil {
		return nil
	}

	resp := &PriceScheduleResponse{
		FacilityID:     s.FacilityID,
		PriceHour:      s.PriceHour,
		PriceExtraHour: s.PriceExtraHour,
		DailyRate:      s.DailyRate,
		NightRate:      s.NightRate,
		MonthlyRate:    s.MonthlyRate,
		CarPrice:       s.CarPrice,
		MotoPrice:      s.MotoPrice,
		TruckPrice:     s.TruckPrice,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if s.NightPeriod != nil {
		resp.NightPeriod = &NightPeriod{
			Start: s.NightPeriod.Start.String(),
			End:   s.NightPeriod.End.String(),
		}
	}
	return resp
}

// FromDomainInventory конвертирует domain модель в DTO
func FromDomainInventory(inv *domain.SpotInventory) *SpotsResponse {
	if inv == nil {
		return nil
	}

	occupied := domain.SpotCounts{}
	for _, v := range domain.VehicleTypes {
		occupied.Set(v, inv.Occupied(v))
	}

	return &SpotsResponse{
		FacilityID: inv.FacilityID,
		TotalSpots: inv.TotalSpots,
		Free:       fromDomainCounts(inv.Free),
		Capacity:   fromDomainCounts(inv.Capacity),
		Occupied:   fromDomainCounts(occupied),
		UpdatedAt:  inv.UpdatedAt,
	}
}

func fromDomainCounts(c domain.SpotCounts) SpotCounts {
	return SpotCounts{
		Car:     c.Car,
		Moto:    c.Moto,
		Truck:   c.Truck,
		PCD:     c.PCD,
		Elderly: c.Elderly,
	}
}
