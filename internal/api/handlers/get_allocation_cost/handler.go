package get_allocation_cost

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/allocations"
)

const (
	msgInvalidAllocationID = "некорректный ID аллокации"
	msgInvalidAt           = "некорректный параметр at, ожидается RFC3339"
	msgNotFound            = "аллокация не найдена"
	msgNotActive           = "аллокация не активна"
	msgScheduleNotFound    = "для парковки не настроен тариф"
	msgInvalidTimeRange    = "момент расчёта раньше даты въезда"
)

type Handler struct {
	service AllocationService
	logger  Logger
}

func NewHandler(service AllocationService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/allocations/{allocationId}/cost
// Query params: at (RFC3339, опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	allocationID, err := handlers.PathInt64(r, "allocationId")
	if err != nil {
		h.logger.Warn("GET /allocations/{id}/cost - Invalid allocation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAllocationID)
		return
	}

	var at time.Time
	if raw := r.URL.Query().Get("at"); raw != "" {
		at, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			h.logger.Warn("GET /allocations/{id}/cost - Invalid at: %v", err)
			handlers.RespondBadRequest(w, msgInvalidAt)
			return
		}
	}

	result, err := h.service.CurrentCost(r.Context(), allocationID, at)
	if err != nil {
		switch {
		case errors.Is(err, allocations.ErrAllocationNotFound):
			h.logger.Warn("GET /allocations/{id}/cost - Allocation not found: allocation_id=%d", allocationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, allocations.ErrAllocationNotActive):
			h.logger.Warn("GET /allocations/{id}/cost - Allocation not active: allocation_id=%d", allocationID)
			handlers.RespondConflict(w, msgNotActive)

		case errors.Is(err, allocations.ErrScheduleNotFound):
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, allocations.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		default:
			h.logger.Error("GET /allocations/{id}/cost - Failed to compute cost: allocation_id=%d, error=%v",
				allocationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
