package lock

import "errors"

var (
	// ErrConnect возвращается, если Redis недоступен при старте
	ErrConnect = errors.New("lock: failed to connect to redis")

	// ErrAcquire возвращается при ошибке попытки захвата блокировки
	ErrAcquire = errors.New("lock: failed to acquire lock")

	// ErrRelease возвращается при ошибке освобождения блокировки
	ErrRelease = errors.New("lock: failed to release lock")
)
