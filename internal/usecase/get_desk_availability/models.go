package get_desk_availability

import (
	"time"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
)

// Request модель запроса расписания стола
type Request struct {
	DeskID int64     // ID стола
	Date   time.Time // День (учитывается только дата)
}

// Response занятость стола за рабочий день
// Владельцы бронирований не раскрываются
type Response struct {
	DeskID        int64
	Date          time.Time
	WorkdayStart  time.Time
	WorkdayEnd    time.Time
	BusyIntervals []domain.TimeInterval
}
