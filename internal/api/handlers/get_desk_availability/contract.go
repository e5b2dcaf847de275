package get_desk_availability

import (
	"context"

	getDeskAvailability "github.com/m04kA/SMC-DeskBookingService/internal/usecase/get_desk_availability"
)

type GetDeskAvailabilityUseCase interface {
	Execute(ctx context.Context, req *getDeskAvailability.Request) (*getDeskAvailability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
