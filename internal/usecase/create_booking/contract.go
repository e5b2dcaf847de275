package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetOverlapping(ctx context.Context, deskID int64, start, end time.Time) ([]*domain.Booking, error)
	GetUserBookingsStartingBetween(ctx context.Context, userID int64, from, to time.Time) ([]*domain.Booking, error)
}

// PolicyRepository интерфейс хранилища активной политики
type PolicyRepository interface {
	GetActive(ctx context.Context) (*domain.BookingTimeLimitsPolicy, error)
}

// DeskRepository интерфейс справочника столов
type DeskRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Desk, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (реализуется clockwork.Clock)
type TimeProvider interface {
	Now() time.Time
}

// MetricsCollector интерфейс для метрик бронирования
type MetricsCollector interface {
	IncBookingCreated()
	IncBookingRejection(code string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
