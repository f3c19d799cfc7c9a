package get_allocation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/allocations"
)

const (
	msgInvalidAllocationID = "некорректный ID аллокации"
	msgNotFound            = "аллокация не найдена"
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

// Handle GET /api/v1/allocations/{allocationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	allocationID, err := handlers.PathInt64(r, "allocationId")
	if err != nil {
		h.logger.Warn("GET /allocations/{id} - Invalid allocation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAllocationID)
		return
	}

	result, err := h.service.GetByID(r.Context(), allocationID)
	if err != nil {
		if errors.Is(err, allocations.ErrAllocationNotFound) {
			h.logger.Warn("GET /allocations/{id} - Allocation not found: allocation_id=%d", allocationID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /allocations/{id} - Failed to get allocation: allocation_id=%d, error=%v",
			allocationID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
