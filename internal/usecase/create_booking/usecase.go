package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-DeskBookingService/internal/infra/storage/booking"
	deskRepo "github.com/m04kA/SMC-DeskBookingService/internal/infra/storage/desk"
	policyRepo "github.com/m04kA/SMC-DeskBookingService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-DeskBookingService/pkg/txmanager"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	policyRepo   PolicyRepository
	deskRepo     DeskRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	location     *time.Location
	metrics      MetricsCollector
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// location часовой пояс офиса: в нём считаются рабочие часы, обед, календарные дни и недели
func NewUseCase(
	bookingRepo BookingRepository,
	policyRepo PolicyRepository,
	deskRepo DeskRepository,
	txManager TransactionManager,
	timeProvider TimeProvider,
	location *time.Location,
	metrics MetricsCollector,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		policyRepo:   policyRepo,
		deskRepo:     deskRepo,
		txManager:    txManager,
		timeProvider: timeProvider,
		location:     location,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute проверяет запрос и создает бронирование
// Чтение политики, стола, пересечений и недельной нагрузки, проверка и вставка
// выполняются в одной сериализуемой транзакции. Проигрыш гонки за стол
// возвращается как ErrDeskNotAvailable, так же как обычное пересечение
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, desk=%d, start=%s, end=%s",
		req.UserID, req.DeskID, req.Start.Format(time.RFC3339), req.End.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Приводим время к часовому поясу офиса
	now := uc.timeProvider.Now().In(uc.location)
	start := req.Start.In(uc.location)
	end := req.End.In(uc.location)

	var result *domain.Booking

	// 3. Проверка и вставка в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Активная политика читается в той же транзакции, что и проверка
		policy, err := uc.policyRepo.GetActive(txCtx)
		if err != nil {
			if errors.Is(err, policyRepo.ErrNoActivePolicy) || errors.Is(err, policyRepo.ErrMultipleActivePolicies) {
				uc.logger.Error("CreateBooking: booking time limits misconfigured: %v", err)
				return fmt.Errorf("%w: %v", ErrNoActivePolicy, err)
			}
			return fmt.Errorf("%w: failed to get active policy: %w", ErrInternal, err)
		}

		// 3.2. Стол
		desk, err := uc.deskRepo.GetByID(txCtx, req.DeskID)
		if err != nil {
			if errors.Is(err, deskRepo.ErrDeskNotFound) {
				uc.logger.Warn("CreateBooking: desk id=%d not found", req.DeskID)
				return ErrDeskNotFound
			}
			return fmt.Errorf("%w: failed to get desk: %w", ErrInternal, err)
		}

		// 3.3. Пересекающиеся бронирования стола (FOR UPDATE)
		deskBookings, err := uc.bookingRepo.GetOverlapping(txCtx, req.DeskID, start, end)
		if err != nil {
			return fmt.Errorf("%w: failed to get overlapping bookings: %w", ErrInternal, err)
		}

		// 3.4. Бронирования пользователя в неделе начала
		weekStart, weekEnd := domain.WeekBounds(start)
		weekBookings, err := uc.bookingRepo.GetUserBookingsStartingBetween(txCtx, req.UserID, weekStart, weekEnd)
		if err != nil {
			return fmt.Errorf("%w: failed to get user week bookings: %w", ErrInternal, err)
		}

		// 3.5. Решение
		if err := Validate(Input{
			Start:            start,
			End:              end,
			Now:              now,
			Desk:             desk,
			Policy:           policy,
			DeskBookings:     deskBookings,
			UserWeekBookings: weekBookings,
		}); err != nil {
			return err
		}

		// 3.6. Создаем бронирование со статусом по текущему времени
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			UserID:    req.UserID,
			DeskID:    req.DeskID,
			StartTime: start,
			EndTime:   end,
			Status:    domain.ResolveStatus(now, start),
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDeskNotAvailable) {
				return ErrDeskNotAvailable
			}
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.handleError(req, err)
	}

	uc.metrics.IncBookingCreated()
	uc.logger.Info("CreateBooking: successfully created booking id=%d status=%s", result.ID, result.Status)

	return &Response{
		ID:        result.ID,
		UserID:    result.UserID,
		DeskID:    result.DeskID,
		StartTime: result.StartTime,
		EndTime:   result.EndTime,
		Status:    result.Status,
		CreatedAt: result.CreatedAt,
		UpdatedAt: result.UpdatedAt,
	}, nil
}

// handleError приводит ошибку транзакции к ошибке use case и учитывает отказы в метриках
func (uc *UseCase) handleError(req *Request, err error) error {
	// Конфликт сериализации означает, что параллельный запрос занял стол раньше
	if errors.Is(err, txmanager.ErrSerializationFailure) {
		uc.logger.Warn("CreateBooking: lost race for desk id=%d: %v", req.DeskID, err)
		err = ErrDeskNotAvailable
	}

	var rejection *Rejection
	if errors.As(err, &rejection) {
		uc.metrics.IncBookingRejection(string(rejection.Code))
		uc.logger.Warn("CreateBooking: rejected user=%d desk=%d: %s", req.UserID, req.DeskID, rejection.Error())
		return rejection
	}

	if errors.Is(err, ErrDeskNotFound) || errors.Is(err, ErrNoActivePolicy) {
		return err
	}

	uc.logger.Error("CreateBooking: failed for user=%d desk=%d: %v", req.UserID, req.DeskID, err)
	if errors.Is(err, ErrInternal) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
