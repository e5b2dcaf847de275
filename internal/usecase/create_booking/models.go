package create_booking

import (
	"time"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID int64     // ID пользователя из заголовка X-User-ID
	DeskID int64     // ID стола
	Start  time.Time // Начало бронирования
	End    time.Time // Конец бронирования (не включается)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID        int64
	UserID    int64
	DeskID    int64
	StartTime time.Time
	EndTime   time.Time
	Status    domain.BookingStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Input всё, что нужно для решения о бронировании
// Время приведено к часовому поясу офиса
type Input struct {
	Start time.Time
	End   time.Time
	Now   time.Time

	Desk   *domain.Desk
	Policy *domain.BookingTimeLimitsPolicy

	// DeskBookings бронирования стола, пересекающиеся с запрошенным интервалом
	DeskBookings []*domain.Booking

	// UserWeekBookings бронирования пользователя, начинающиеся в неделе Start
	UserWeekBookings []*domain.Booking
}
