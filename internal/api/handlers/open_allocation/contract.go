package open_allocation

import (
	"context"

	openAllocation "github.com/m04kA/SMC-ParkingService/internal/usecase/open_allocation"
)

type OpenAllocationUseCase interface {
	Execute(ctx context.Context, req *openAllocation.Request) (*openAllocation.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
