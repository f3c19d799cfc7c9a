package get_facility_allocations

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/service/allocations"
	"github.com/m04kA/SMC-ParkingService/internal/service/allocations/models"
)

const (
	msgInvalidFacilityID = "некорректный ID парковки"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidParams     = "некорректные параметры запроса"
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

// Handle GET /api/v1/facilities/{facilityId}/allocations
// Query params: status (active, closed; опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	facilityID, err := handlers.PathInt64(r, "facilityId")
	if err != nil {
		h.logger.Warn("GET /facilities/{id}/allocations - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /facilities/{id}/allocations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.GetFacilityAllocationsRequest{
		UserID:     userID,
		FacilityID: facilityID,
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.ListByFacility(r.Context(), req)
	if err != nil {
		if errors.Is(err, allocations.ErrInvalidInput) {
			h.logger.Warn("GET /facilities/{id}/allocations - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /facilities/{id}/allocations - Failed to list allocations: facility_id=%d, error=%v",
			facilityID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /facilities/{id}/allocations - Allocations retrieved: facility_id=%d, count=%d",
		facilityID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
