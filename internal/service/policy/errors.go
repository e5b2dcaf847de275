package policy

import "errors"

var (
	// ErrNoActivePolicy возвращается, когда активная политика отсутствует или не единственна
	ErrNoActivePolicy = errors.New("policy: no active booking time limits policy")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("policy: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("policy: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("policy: internal error")
)
