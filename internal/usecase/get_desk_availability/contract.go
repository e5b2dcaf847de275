package get_desk_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByDeskInRange неотменённые бронирования стола, пересекающиеся с [from, to)
	GetByDeskInRange(ctx context.Context, deskID int64, from, to time.Time) ([]*domain.Booking, error)
}

// PolicyRepository интерфейс хранилища активной политики
type PolicyRepository interface {
	GetActive(ctx context.Context) (*domain.BookingTimeLimitsPolicy, error)
}

// DeskRepository интерфейс справочника столов
type DeskRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Desk, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
