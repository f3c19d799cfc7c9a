package domain

// VehicleType is the spot category a vehicle occupies.
type VehicleType string

const (
	VehicleCar     VehicleType = "car"
	VehicleMoto    VehicleType = "moto"
	VehicleTruck   VehicleType = "truck"
	VehiclePCD     VehicleType = "pcd"
	VehicleElderly VehicleType = "elderly"
)

// VehicleTypes lists every spot category in display order.
var VehicleTypes = []VehicleType{
	VehicleCar,
	VehicleMoto,
	VehicleTruck,
	VehiclePCD,
	VehicleElderly,
}

// IsValid returns true if the vehicle type is one of the known categories
func (v VehicleType) IsValid() bool {
	for _, known := range VehicleTypes {
		if v == known {
			return true
		}
	}
	return false
}

// ParseVehicleType converts a raw string into a VehicleType
func ParseVehicleType(s string) (VehicleType, error) {
	v := VehicleType(s)
	if !v.IsValid() {
		return "", newValidationError("vehicleType", "must be one of car, moto, truck, pcd, elderly")
	}
	return v, nil
}

// PaymentType is the billing mode chosen when an allocation is opened.
type PaymentType string

const (
	PaymentHour  PaymentType = "hour"
	PaymentDay   PaymentType = "day"
	PaymentMonth PaymentType = "month"
)

// IsValid returns true if the payment type is hour, day or month
func (p PaymentType) IsValid() bool {
	return p == PaymentHour || p == PaymentDay || p == PaymentMonth
}

// ParsePaymentType converts a raw string into a PaymentType
func ParsePaymentType(s string) (PaymentType, error) {
	p := PaymentType(s)
	if !p.IsValid() {
		return "", newValidationError("paymentType", "must be one of hour, day, month")
	}
	return p, nil
}
