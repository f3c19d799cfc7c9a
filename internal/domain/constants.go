package domain

// Billing constants
const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
)

// Business validation constants
const (
	MaxObservationsLength = 500
	MaxSpotsPerCategory   = 10000
)

// MoneyScale число знаков после запятой в денежных колонках (NUMERIC(12, 2))
const MoneyScale = 2

// DefaultCurrencySymbol символ валюты по умолчанию для форматирования сумм
const DefaultCurrencySymbol = "R$"
