package sweep_statuses

import (
	"context"
	"time"
)

// BookingRepository интерфейс пакетных переходов статусов
type BookingRepository interface {
	// ActivateDue переводит scheduled с start_time <= now в active
	ActivateDue(ctx context.Context, now time.Time) (int64, error)
	// ConfirmDue переводит active с end_time <= now в confirmed
	ConfirmDue(ctx context.Context, now time.Time) (int64, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsCollector интерфейс метрик переходов
type MetricsCollector interface {
	AddSweepTransitions(transition string, count int64)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
