package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.DeskID <= 0 {
		return fmt.Errorf("%w: deskID must be positive", ErrInvalidInput)
	}

	if req.Start.IsZero() || req.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}

	return nil
}

// Validate принимает решение о бронировании
// Проверки выполняются по порядку, возвращается первый найденный отказ (*Rejection)
func Validate(in Input) error {
	checks := []func(in Input) *Rejection{
		checkTimeSanity,
		checkDuration,
		checkOfficeHours,
		checkAdvance,
		checkDeskType,
		checkDeskOverlap,
		checkWeeklyQuota,
	}

	for _, check := range checks {
		if rejection := check(in); rejection != nil {
			return rejection
		}
	}

	return nil
}

// checkTimeSanity бронирование не в прошлом и конец позже начала
func checkTimeSanity(in Input) *Rejection {
	if in.Start.Before(in.Now) {
		return reject(CodeWrongTimeDate, "начало бронирования %s уже в прошлом", in.Start.Format(time.RFC3339))
	}
	if !in.End.After(in.Start) {
		return reject(CodeWrongTimeDate, "конец бронирования должен быть позже начала")
	}
	return nil
}

// checkDuration длительность с вычетом обеда в пределах [minHours, maxHours]
func checkDuration(in Input) *Rejection {
	hours := effectiveHours(in.Start, in.End, in.Policy)

	if hours < float64(in.Policy.MinHours) {
		return reject(CodeTooShort, "длительность %.2f ч меньше минимальной %d ч", hours, in.Policy.MinHours)
	}
	if hours > float64(in.Policy.MaxHours) {
		return reject(CodeTooLong, "длительность %.2f ч больше максимальной %d ч", hours, in.Policy.MaxHours)
	}
	return nil
}

// effectiveHours длительность в часах минус один час, если интервал задевает обед дня начала
// Обед вычитается не больше одного раза, результат не меньше нуля
func effectiveHours(start, end time.Time, policy *domain.BookingTimeLimitsPolicy) float64 {
	interval := domain.TimeInterval{Start: start, End: end}
	hours := interval.Hours()

	if interval.Overlaps(policy.LunchWindow(start)) {
		hours -= domain.LunchDeductionHour
	}
	if hours < 0 {
		return 0
	}
	return hours
}

// checkOfficeHours бронирование внутри рабочих часов дня начала
// Конец ровно в час закрытия офиса допустим
func checkOfficeHours(in Input) *Rejection {
	if !withinOfficeHours(in.Start, in.End, in.Policy) {
		return reject(CodeOutsideOfficeHours, "офис работает с %02d:00 до %02d:00",
			in.Policy.OfficeStartHour, in.Policy.OfficeEndHour)
	}
	return nil
}

func withinOfficeHours(start, end time.Time, policy *domain.BookingTimeLimitsPolicy) bool {
	if start.Hour() < policy.OfficeStartHour {
		return false
	}

	// Конец на следующий день возможен только как полночь при офисе до 24:00
	if !domain.StartOfDay(end).Equal(domain.StartOfDay(start)) {
		return policy.OfficeEndHour == domain.MaxHourOfDay && end.Equal(domain.AtHour(start, domain.MaxHourOfDay))
	}

	return end.Hour() < policy.OfficeEndHour ||
		(end.Hour() == policy.OfficeEndHour && end.Minute() == 0)
}

// checkAdvance не дальше maxDaysInAdvance календарных дней от сегодня
func checkAdvance(in Input) *Rejection {
	days := domain.CalendarDaysBetween(in.Now, in.Start)
	if days > in.Policy.MaxDaysInAdvance {
		return reject(CodeBookingTooFarAhead, "бронировать можно не более чем на %d дней вперёд, запрошено %d",
			in.Policy.MaxDaysInAdvance, days)
	}
	return nil
}

// checkDeskType общий стол доступен всегда, закреплённый только во временном окне
func checkDeskType(in Input) *Rejection {
	desk := in.Desk

	if !desk.IsActive() {
		return reject(CodeDeskNotBookable, "стол %d деактивирован", desk.ID)
	}

	switch desk.Type {
	case domain.DeskTypeShared:
		return nil

	case domain.DeskTypeAssigned:
		if !desk.IsTemporarilyAvailable {
			return reject(CodeOutOfTemporaryRange, "стол %d закреплён и не открыт для бронирования", desk.ID)
		}
		if !desk.HasValidTemporaryWindow() {
			return reject(CodeTemporaryWindowInvalid, "у стола %d некорректное окно временной доступности", desk.ID)
		}
		if in.Start.Before(*desk.TemporaryAvailableFrom) || in.End.After(*desk.TemporaryAvailableUntil) {
			return reject(CodeOutOfTemporaryRange, "стол %d доступен только с %s по %s", desk.ID,
				desk.TemporaryAvailableFrom.Format(time.RFC3339), desk.TemporaryAvailableUntil.Format(time.RFC3339))
		}
		return nil

	default:
		return reject(CodeDeskNotBookable, "стол %d недоступен для бронирования", desk.ID)
	}
}

// checkDeskOverlap на столе нет неотменённого бронирования, пересекающего [start, end)
func checkDeskOverlap(in Input) *Rejection {
	candidate := domain.TimeInterval{Start: in.Start, End: in.End}

	for _, existing := range in.DeskBookings {
		if existing.IsCancelled() || existing.DeskID != in.Desk.ID {
			continue
		}
		if existing.Interval().Overlaps(candidate) {
			return reject(CodeDeskNotAvailable, "стол %d уже забронирован на это время", in.Desk.ID)
		}
	}
	return nil
}

// checkWeeklyQuota сумма часов пользователя за ISO неделю начала не превышает maxHoursPerWeek
// Считается сырая длительность, без вычета обеда
func checkWeeklyQuota(in Input) *Rejection {
	weekStart, weekEnd := domain.WeekBounds(in.Start)

	booked := 0.0
	for _, existing := range in.UserWeekBookings {
		if existing.IsCancelled() {
			continue
		}
		if existing.StartTime.Before(weekStart) || !existing.StartTime.Before(weekEnd) {
			continue
		}
		booked += existing.Hours()
	}

	requested := in.End.Sub(in.Start).Hours()
	if booked+requested > float64(in.Policy.MaxHoursPerWeek) {
		return reject(CodeWeeklyHoursExceeded, "на неделе уже забронировано %.2f ч, запрошено %.2f ч, лимит %d ч",
			booked, requested, in.Policy.MaxHoursPerWeek)
	}
	return nil
}
