package sweep_statuses

import (
	"context"
	"fmt"
	"time"
)

// UseCase use case для перевода статусов бронирований по времени
type UseCase struct {
	bookingRepo BookingRepository
	txManager   TransactionManager
	metrics     MetricsCollector
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	txManager TransactionManager,
	metrics MetricsCollector,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		txManager:   txManager,
		metrics:     metrics,
		logger:      logger,
	}
}

// Execute выполняет два пакета: активацию, затем подтверждение
// Каждый пакет атомарен. Если подтверждение откатилось, активация остаётся зафиксированной
// Бронирование, целиком прошедшее между проходами, за один проход станет confirmed
func (uc *UseCase) Execute(ctx context.Context, now time.Time) (Result, error) {
	var result Result

	// 1. scheduled -> active
	activated, err := uc.runBatch(ctx, now, uc.bookingRepo.ActivateDue)
	if err != nil {
		uc.logger.Error("SweepStatuses: activate batch rolled back: %v", err)
		return result, fmt.Errorf("%w: %v", ErrActivate, err)
	}
	result.Activated = activated
	uc.metrics.AddSweepTransitions(TransitionActivate, activated)

	// 2. active -> confirmed
	confirmed, err := uc.runBatch(ctx, now, uc.bookingRepo.ConfirmDue)
	if err != nil {
		uc.logger.Error("SweepStatuses: confirm batch rolled back: %v", err)
		return result, fmt.Errorf("%w: %v", ErrConfirm, err)
	}
	result.Confirmed = confirmed
	uc.metrics.AddSweepTransitions(TransitionConfirm, confirmed)

	if result.Total() > 0 {
		uc.logger.Info("SweepStatuses: activated=%d, confirmed=%d at %s",
			result.Activated, result.Confirmed, now.Format(time.RFC3339))
	}

	return result, nil
}

func (uc *UseCase) runBatch(ctx context.Context, now time.Time, batch func(ctx context.Context, now time.Time) (int64, error)) (int64, error) {
	var count int64

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		n, err := batch(txCtx, now)
		if err != nil {
			return err
		}
		count = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}
