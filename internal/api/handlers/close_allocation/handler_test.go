package close_allocation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	closeAllocation "github.com/m04kA/SMC-ParkingService/internal/usecase/close_allocation"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *closeAllocation.Request) (*closeAllocation.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*closeAllocation.Response), args.Error(1)
}

func newRequest(allocationID, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPatch, "/api/v1/allocations/"+allocationID+"/close", nil)
	} else {
		req = httptest.NewRequest(http.MethodPatch, "/api/v1/allocations/"+allocationID+"/close", strings.NewReader(body))
	}
	req = mux.SetURLVars(req, map[string]string{"allocationId": allocationID})
	return req.WithContext(middleware.WithUserID(req.Context(), 7))
}

func TestHandle_ClosesWithoutBody(t *testing.T) {
	uc := new(mockUseCase)
	h := NewHandler(uc, "R$", logger.NewNop())

	entry := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *closeAllocation.Request) bool {
		return r.AllocationID == 5 && r.OperatorID == 7 && r.ExitDate == nil
	})).Return(&closeAllocation.Response{
		ID:        5,
		EntryDate: entry,
		ExitDate:  entry.Add(61 * time.Minute),
		Status:    domain.AllocationClosed,
		Cost: domain.CostBreakdown{
			ElapsedMinutes: 61,
			Amount:         decimal.RequireFromString("1234.5"),
			Rule:           domain.RuleHourly,
		},
	}, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest("5", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ClosedAllocationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "closed", resp.Status)
	assert.Equal(t, "01:01", resp.Cost.Elapsed)
	assert.Equal(t, "R$ 1.234,50", resp.Cost.BilledAmountFormatted)
	assert.True(t, decimal.RequireFromString("1234.5").Equal(resp.Cost.BilledAmount))
}

func TestHandle_ExitDateFromBody(t *testing.T) {
	uc := new(mockUseCase)
	h := NewHandler(uc, "R$", logger.NewNop())

	exit := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *closeAllocation.Request) bool {
		return r.ExitDate != nil && r.ExitDate.Equal(exit) && r.FacilityID == 1
	})).Return(&closeAllocation.Response{ID: 5, ExitDate: exit, Status: domain.AllocationClosed}, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest("5", `{"facilityId":1,"exitDate":"2025-03-10T15:00:00Z"}`))

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		body       string
		ucErr      error
		wantStatus int
	}{
		{"already closed", "5", "", closeAllocation.ErrAlreadyClosed, http.StatusConflict},
		{"not found", "5", "", closeAllocation.ErrAllocationNotFound, http.StatusNotFound},
		{"facility mismatch", "5", `{"facilityId":2}`, closeAllocation.ErrForbidden, http.StatusForbidden},
		{"exit before entry", "5", "", closeAllocation.ErrInvalidTimeRange, http.StatusBadRequest},
		{"internal", "5", "", closeAllocation.ErrInternal, http.StatusInternalServerError},
		{"bad id", "abc", "", nil, http.StatusBadRequest},
		{"bad exit date", "5", `{"exitDate":"soon"}`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)
			}
			h := NewHandler(uc, "R$", logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.id, tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
