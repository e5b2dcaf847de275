package get_desk_availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.DeskID <= 0 {
		return fmt.Errorf("%w: deskID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// busyIntervals обрезает бронирования по рабочему окну и склеивает соседние
func busyIntervals(bookings []*domain.Booking, window domain.TimeInterval, loc *time.Location) []domain.TimeInterval {
	clipped := make([]domain.TimeInterval, 0, len(bookings))

	for _, booking := range bookings {
		if booking.IsCancelled() {
			continue
		}
		interval := domain.TimeInterval{
			Start: booking.StartTime.In(loc),
			End:   booking.EndTime.In(loc),
		}
		if part, ok := interval.Clip(window); ok {
			clipped = append(clipped, part)
		}
	}

	return domain.MergeIntervals(clipped)
}
