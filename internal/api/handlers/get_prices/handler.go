package get_prices

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/service/facilities"
)

const (
	msgInvalidFacilityID = "некорректный ID парковки"
	msgNotFound          = "тариф парковки не найден"
)

type Handler struct {
	service FacilityService
	logger  Logger
}

func NewHandler(service FacilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/facilities/{facilityId}/prices
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	facilityID, err := handlers.PathInt64(r, "facilityId")
	if err != nil {
		h.logger.Warn("GET /facilities/{id}/prices - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}

	result, err := h.service.GetPriceSchedule(r.Context(), facilityID)
	if err != nil {
		if errors.Is(err, facilities.ErrScheduleNotFound) {
			h.logger.Warn("GET /facilities/{id}/prices - Schedule not found: facility_id=%d", facilityID)
			handlers.RespondNotFound(w, msgNotFound)
			return
		}
		h.logger.Error("GET /facilities/{id}/prices - Failed to get schedule: facility_id=%d, error=%v",
			facilityID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /facilities/{id}/prices - Schedule retrieved: facility_id=%d", facilityID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
