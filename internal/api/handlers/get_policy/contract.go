package get_policy

import (
	"context"

	"github.com/m04kA/SMC-DeskBookingService/internal/service/policy/models"
)

type PolicyService interface {
	GetActive(ctx context.Context) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
