package get_desk_availability

import "errors"

var (
	// ErrDeskNotFound возвращается, когда стол не найден
	ErrDeskNotFound = errors.New("get_desk_availability: desk not found")

	// ErrNoActivePolicy возвращается, когда активная политика отсутствует или не единственна
	ErrNoActivePolicy = errors.New("get_desk_availability: no active booking time limits policy")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_desk_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_desk_availability: internal error")
)
