package billing

import "errors"

var (
	// ErrInvalidTimeRange возвращается, когда время расчёта раньше времени въезда
	ErrInvalidTimeRange = errors.New("billing: evaluation time is before entry time")

	// ErrInvalidInput возвращается при неизвестном типе оплаты/ТС или отсутствии тарифа
	ErrInvalidInput = errors.New("billing: invalid input")
)
