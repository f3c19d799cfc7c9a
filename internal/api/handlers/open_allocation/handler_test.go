package open_allocation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParkingService/internal/api/handlers"
	"github.com/m04kA/SMC-ParkingService/internal/api/middleware"
	"github.com/m04kA/SMC-ParkingService/internal/domain"
	openAllocation "github.com/m04kA/SMC-ParkingService/internal/usecase/open_allocation"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *openAllocation.Request) (*openAllocation.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openAllocation.Response), args.Error(1)
}

func newRequest(body string, userID int64) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/allocations", strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	return req
}

const validBody = `{"facilityId":1,"clientId":10,"vehicleId":20,"vehicleType":"car","paymentType":"hour","entryDate":"2025-03-10T12:00:00Z"}`

func TestHandle_Created(t *testing.T) {
	uc := new(mockUseCase)
	h := NewHandler(uc, logger.NewNop())

	entry := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *openAllocation.Request) bool {
		return r.OperatorID == 7 && r.EntryDate != nil && r.EntryDate.Equal(entry) && r.VehicleType == "car"
	})).Return(&openAllocation.Response{
		ID:          100,
		FacilityID:  1,
		VehicleType: domain.VehicleCar,
		PaymentType: domain.PaymentHour,
		EntryDate:   entry,
		Status:      domain.AllocationActive,
	}, nil)

	rec := httptest.NewRecorder()
	h.Handle(rec, newRequest(validBody, 7))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp AllocationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, "2025-03-10T12:00:00Z", resp.EntryDate)
	assert.NotContains(t, rec.Body.String(), "token")
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		userID     int64
		ucErr      error
		wantStatus int
	}{
		{"no capacity", validBody, 7, openAllocation.ErrNoCapacityAvailable, http.StatusConflict},
		{"no schedule", validBody, 7, openAllocation.ErrScheduleNotFound, http.StatusNotFound},
		{"no spots configured", validBody, 7, openAllocation.ErrFacilityNotFound, http.StatusNotFound},
		{"invalid input", validBody, 7, openAllocation.ErrInvalidInput, http.StatusBadRequest},
		{"internal", validBody, 7, openAllocation.ErrInternal, http.StatusInternalServerError},
		{"malformed body", `{"facilityId":`, 7, nil, http.StatusBadRequest},
		{"bad entry date", `{"facilityId":1,"entryDate":"yesterday"}`, 7, nil, http.StatusBadRequest},
		{"no user", validBody, 0, nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(mockUseCase)
			if tt.ucErr != nil {
				uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.ucErr)
			}
			h := NewHandler(uc, logger.NewNop())

			rec := httptest.NewRecorder()
			h.Handle(rec, newRequest(tt.body, tt.userID))

			assert.Equal(t, tt.wantStatus, rec.Code)

			var errResp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
			assert.Equal(t, tt.wantStatus, errResp.Code)
			if tt.ucErr == openAllocation.ErrNoCapacityAvailable {
				assert.Equal(t, "no spots available", errResp.Message)
			}
			if tt.ucErr == nil {
				uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
			}
		})
	}
}
