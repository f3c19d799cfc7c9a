package open_allocation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	openAllocation "github.com/m04kA/SMC-ParkingService/internal/usecase/open_allocation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidEntryDate   = "некорректный формат даты въезда, ожидается RFC3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNoSpots            = "no spots available"
	msgScheduleNotFound   = "для парковки не настроен тариф"
	msgFacilityNotFound   = "для парковки не настроены места"
	msgEntryInFuture      = "дата въезда не может быть в будущем"
	msgInvalidData        = "некорректные данные аллокации"
)

type Handler struct {
	useCase OpenAllocationUseCase
	logger  Logger
}

func NewHandler(useCase OpenAllocationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/allocations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /allocations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req OpenAllocationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /allocations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /allocations - Failed to parse entry date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEntryDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, openAllocation.ErrNoCapacityAvailable):
			h.logger.Warn("POST /allocations - No spots: facility_id=%d, vehicle_type=%s", req.FacilityID, req.VehicleType)
			handlers.RespondConflict(w, msgNoSpots)

		case errors.Is(err, openAllocation.ErrScheduleNotFound):
			h.logger.Warn("POST /allocations - Schedule not found: facility_id=%d", req.FacilityID)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, openAllocation.ErrFacilityNotFound):
			h.logger.Warn("POST /allocations - Spots not configured: facility_id=%d", req.FacilityID)
			handlers.RespondNotFound(w, msgFacilityNotFound)

		case errors.Is(err, openAllocation.ErrInvalidEntryDate):
			h.logger.Warn("POST /allocations - Entry date in the future: facility_id=%d", req.FacilityID)
			handlers.RespondBadRequest(w, msgEntryInFuture)

		case errors.Is(err, openAllocation.ErrInvalidInput):
			h.logger.Warn("POST /allocations - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /allocations - Failed to open allocation: facility_id=%d, error=%v", req.FacilityID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /allocations - Allocation opened: allocation_id=%d, facility_id=%d, operator_id=%d",
		result.ID, result.FacilityID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
