package close_allocation

import (
	"context"

	closeAllocation "github.com/m04kA/SMC-ParkingService/internal/usecase/close_allocation"
)

type CloseAllocationUseCase interface {
	Execute(ctx context.Context, req *closeAllocation.Request) (*closeAllocation.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
