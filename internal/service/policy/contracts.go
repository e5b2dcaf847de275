package policy

import (
	"context"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
)

// PolicyRepository интерфейс хранилища политики бронирования
type PolicyRepository interface {
	GetActive(ctx context.Context) (*domain.BookingTimeLimitsPolicy, error)
	Update(ctx context.Context, policy *domain.BookingTimeLimitsPolicy) (*domain.BookingTimeLimitsPolicy, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
