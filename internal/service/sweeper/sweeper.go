package sweeper

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
)

// Sweeper периодически переводит статусы бронирований по времени
type Sweeper struct {
	useCase  SweepUseCase
	clock    clockwork.Clock
	interval time.Duration
	locker   Locker
	metrics  MetricsCollector
	logger   Logger
}

// Option настройка Sweeper
type Option func(*Sweeper)

// WithLocker включает блокировку, чтобы за тик проход делала только одна реплика
func WithLocker(locker Locker) Option {
	return func(s *Sweeper) {
		s.locker = locker
	}
}

// NewSweeper создает новый Sweeper
func NewSweeper(
	useCase SweepUseCase,
	clock clockwork.Clock,
	interval time.Duration,
	metrics MetricsCollector,
	logger Logger,
	opts ...Option,
) *Sweeper {
	s := &Sweeper{
		useCase:  useCase,
		clock:    clock,
		interval: interval,
		metrics:  metrics,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run выполняет проход сразу и затем на каждом тике до отмены ctx
// Ошибки прохода логируются и не прерывают цикл, следующий тик повторит попытку
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("Sweeper: started with interval %s", s.interval)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	// Догоняем переходы, пропущенные пока сервис был остановлен
	s.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Sweeper: stopped")
			return
		case <-ticker.Chan():
			s.Tick(ctx)
		}
	}
}

// Tick выполняет один проход
func (s *Sweeper) Tick(ctx context.Context) {
	if s.locker != nil {
		release, acquired, err := s.locker.TryLock(ctx, s.interval)
		if err != nil {
			s.logger.Error("Sweeper: failed to acquire lock: %v", err)
			s.metrics.IncSweepFailure()
			return
		}
		if !acquired {
			s.logger.Info("Sweeper: another replica holds the lock, skipping tick")
			return
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("Sweeper: failed to release lock: %v", err)
			}
		}()
	}

	if _, err := s.useCase.Execute(ctx, s.clock.Now()); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Error("Sweeper: sweep failed, will retry on next tick: %v", err)
		s.metrics.IncSweepFailure()
	}
}
