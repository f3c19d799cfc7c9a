package get_allocation_cost

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ParkingService/internal/service/allocations"
	"github.com/m04kA/SMC-ParkingService/internal/service/allocations/models"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CurrentCost(ctx context.Context, id int64, now time.Time) (*models.CostResponse, error) {
	args := m.Called(ctx, id, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CostResponse), args.Error(1)
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/allocations/{allocationId}/cost", h.Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle(t *testing.T) {
	at := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

	svc := new(mockService)
	svc.On("CurrentCost", mock.Anything, int64(3), at).Return(&models.CostResponse{ElapsedMinutes: 60}, nil)
	svc.On("CurrentCost", mock.Anything, int64(3), time.Time{}).Return(&models.CostResponse{}, nil)
	svc.On("CurrentCost", mock.Anything, int64(4), mock.Anything).Return(nil, allocations.ErrAllocationNotActive)
	svc.On("CurrentCost", mock.Anything, int64(5), mock.Anything).Return(nil, allocations.ErrAllocationNotFound)
	h := NewHandler(svc, logger.NewNop())

	assert.Equal(t, http.StatusOK, serve(h, "/allocations/3/cost?at=2025-03-10T15:00:00Z").Code)
	assert.Equal(t, http.StatusOK, serve(h, "/allocations/3/cost").Code)
	assert.Equal(t, http.StatusConflict, serve(h, "/allocations/4/cost").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, "/allocations/5/cost").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "/allocations/3/cost?at=tomorrow").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "/allocations/0/cost").Code)
}
