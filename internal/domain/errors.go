package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation базовая ошибка валидации доменных объектов
	ErrValidation = errors.New("domain: validation error")

	// ErrNoFreeSpot возвращается, когда в категории не осталось свободных мест
	ErrNoFreeSpot = errors.New("domain: no free spot in category")

	// ErrCapacityExceeded возвращается, когда счётчик свободных мест превысил бы вместимость
	ErrCapacityExceeded = errors.New("domain: free spots would exceed capacity")
)

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
