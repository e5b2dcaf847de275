package create_booking

import (
	"errors"
	"fmt"
)

// Code машиночитаемый код отказа в бронировании
type Code string

const (
	CodeWrongTimeDate          Code = "WRONG_TIME_DATE"
	CodeTooShort               Code = "TOO_SHORT"
	CodeTooLong                Code = "TOO_LONG"
	CodeOutsideOfficeHours     Code = "OUTSIDE_OFFICE_HOURS"
	CodeBookingTooFarAhead     Code = "BOOKING_TOO_FAR_AHEAD"
	CodeDeskNotBookable        Code = "DESK_NOT_BOOKABLE"
	CodeOutOfTemporaryRange    Code = "OUT_OF_TEMPORARY_RANGE"
	CodeTemporaryWindowInvalid Code = "TEMPORARY_WINDOW_INVALID"
	CodeDeskNotAvailable       Code = "DESK_NOT_AVAILABLE"
	CodeWeeklyHoursExceeded    Code = "WEEKLY_HOURS_EXCEEDED"
)

// Rejection отказ в бронировании, который пользователь может исправить
// Два отказа равны для errors.Is, если совпадают коды
type Rejection struct {
	Code    Code
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("create_booking: %s: %s", r.Code, r.Message)
}

// Is сравнивает отказы по коду
func (r *Rejection) Is(target error) bool {
	t, ok := target.(*Rejection)
	return ok && t.Code == r.Code
}

func reject(code Code, format string, v ...interface{}) *Rejection {
	return &Rejection{Code: code, Message: fmt.Sprintf(format, v...)}
}

// Эталонные отказы для errors.Is
var (
	ErrWrongTimeDate          = &Rejection{Code: CodeWrongTimeDate, Message: "некорректное время бронирования"}
	ErrTooShort               = &Rejection{Code: CodeTooShort, Message: "бронирование слишком короткое"}
	ErrTooLong                = &Rejection{Code: CodeTooLong, Message: "бронирование слишком длинное"}
	ErrOutsideOfficeHours     = &Rejection{Code: CodeOutsideOfficeHours, Message: "бронирование вне рабочих часов офиса"}
	ErrBookingTooFarAhead     = &Rejection{Code: CodeBookingTooFarAhead, Message: "бронирование слишком далеко в будущем"}
	ErrDeskNotBookable        = &Rejection{Code: CodeDeskNotBookable, Message: "стол недоступен для бронирования"}
	ErrOutOfTemporaryRange    = &Rejection{Code: CodeOutOfTemporaryRange, Message: "стол не открыт для бронирования в это время"}
	ErrTemporaryWindowInvalid = &Rejection{Code: CodeTemporaryWindowInvalid, Message: "окно временной доступности стола настроено некорректно"}
	ErrDeskNotAvailable       = &Rejection{Code: CodeDeskNotAvailable, Message: "стол уже забронирован на это время"}
	ErrWeeklyHoursExceeded    = &Rejection{Code: CodeWeeklyHoursExceeded, Message: "превышен недельный лимит часов"}
)

var (
	// ErrDeskNotFound возвращается, когда стол не найден
	ErrDeskNotFound = errors.New("create_booking: desk not found")

	// ErrNoActivePolicy возвращается, когда активная политика отсутствует или не единственна
	ErrNoActivePolicy = errors.New("create_booking: no active booking time limits policy")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
