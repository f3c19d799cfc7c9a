package close_allocation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	closeAllocation "github.com/m04kA/SMC-ParkingService/internal/usecase/close_allocation"
)

const (
	msgInvalidAllocationID = "некорректный ID аллокации"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidExitDate     = "некорректный формат даты выезда, ожидается RFC3339"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgNotFound            = "аллокация не найдена"
	msgAlreadyClosed       = "аллокация уже закрыта"
	msgForbidden           = "аллокация относится к другой парковке"
	msgScheduleNotFound    = "для парковки не настроен тариф"
	msgInvalidTimeRange    = "дата выезда раньше даты въезда"
)

type Handler struct {
	useCase        CloseAllocationUseCase
	currencySymbol string
	logger         Logger
}

func NewHandler(useCase CloseAllocationUseCase, currencySymbol string, logger Logger) *Handler {
	return &Handler{
		useCase:        useCase,
		currencySymbol: currencySymbol,
		logger:         logger,
	}
}

// Handle PATCH /api/v1/allocations/{allocationId}/close
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	allocationID, err := handlers.PathInt64(r, "allocationId")
	if err != nil {
		h.logger.Warn("PATCH /allocations/{id}/close - Invalid allocation ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAllocationID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /allocations/{id}/close - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Тело необязательно: без него выезд фиксируется текущим временем
	var req CloseAllocationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("PATCH /allocations/{id}/close - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, allocationID)
	if err != nil {
		h.logger.Warn("PATCH /allocations/{id}/close - Failed to parse exit date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExitDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, closeAllocation.ErrAllocationNotFound):
			h.logger.Warn("PATCH /allocations/{id}/close - Allocation not found: allocation_id=%d", allocationID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, closeAllocation.ErrAlreadyClosed):
			h.logger.Warn("PATCH /allocations/{id}/close - Already closed: allocation_id=%d", allocationID)
			handlers.RespondConflict(w, msgAlreadyClosed)

		case errors.Is(err, closeAllocation.ErrForbidden):
			h.logger.Warn("PATCH /allocations/{id}/close - Facility mismatch: allocation_id=%d, facility_id=%d",
				allocationID, req.FacilityID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, closeAllocation.ErrScheduleNotFound):
			h.logger.Warn("PATCH /allocations/{id}/close - Schedule not found: allocation_id=%d", allocationID)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, closeAllocation.ErrInvalidTimeRange):
			h.logger.Warn("PATCH /allocations/{id}/close - Exit before entry: allocation_id=%d", allocationID)
			handlers.RespondBadRequest(w, msgInvalidTimeRange)

		case errors.Is(err, closeAllocation.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidAllocationID)

		default:
			h.logger.Error("PATCH /allocations/{id}/close - Failed to close allocation: allocation_id=%d, error=%v",
				allocationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /allocations/{id}/close - Allocation closed: allocation_id=%d, operator_id=%d",
		allocationID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, h.currencySymbol))
}
