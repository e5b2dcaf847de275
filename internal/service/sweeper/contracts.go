package sweeper

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DeskBookingService/internal/infra/lock"
	"github.com/m04kA/SMC-DeskBookingService/internal/usecase/sweep_statuses"
)

// SweepUseCase интерфейс прохода по статусам
type SweepUseCase interface {
	Execute(ctx context.Context, now time.Time) (sweep_statuses.Result, error)
}

// Locker интерфейс распределённой блокировки между репликами
type Locker interface {
	TryLock(ctx context.Context, ttl time.Duration) (lock.ReleaseFunc, bool, error)
}

// MetricsCollector интерфейс метрик сбоев
type MetricsCollector interface {
	IncSweepFailure()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
