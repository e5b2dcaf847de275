package sweep_statuses

import "errors"

var (
	// ErrActivate возвращается, если пакет активации откатился
	ErrActivate = errors.New("sweep_statuses: activate batch failed")

	// ErrConfirm возвращается, если пакет подтверждения откатился
	ErrConfirm = errors.New("sweep_statuses: confirm batch failed")
)
