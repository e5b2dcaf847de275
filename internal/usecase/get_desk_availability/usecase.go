package get_desk_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
	deskRepo "github.com/m04kA/SMC-DeskBookingService/internal/infra/storage/desk"
	policyRepo "github.com/m04kA/SMC-DeskBookingService/internal/infra/storage/policy"
)

// UseCase use case для получения расписания занятости стола
type UseCase struct {
	bookingRepo BookingRepository
	policyRepo  PolicyRepository
	deskRepo    DeskRepository
	location    *time.Location
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	policyRepo PolicyRepository,
	deskRepo DeskRepository,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo: bookingRepo,
		policyRepo:  policyRepo,
		deskRepo:    deskRepo,
		location:    location,
		logger:      logger,
	}
}

// Execute возвращает рабочие часы дня и занятые интервалы стола внутри них
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDeskAvailability: desk=%d, date=%s", req.DeskID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetDeskAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. День в часовом поясе офиса
	day := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.location)

	// 3. Проверяем, что стол существует
	if _, err := uc.deskRepo.GetByID(ctx, req.DeskID); err != nil {
		if errors.Is(err, deskRepo.ErrDeskNotFound) {
			uc.logger.Warn("GetDeskAvailability: desk id=%d not found", req.DeskID)
			return nil, ErrDeskNotFound
		}
		uc.logger.Error("GetDeskAvailability: failed to get desk id=%d: %v", req.DeskID, err)
		return nil, fmt.Errorf("%w: failed to get desk: %v", ErrInternal, err)
	}

	// 4. Рабочие часы из активной политики
	policy, err := uc.policyRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, policyRepo.ErrNoActivePolicy) || errors.Is(err, policyRepo.ErrMultipleActivePolicies) {
			uc.logger.Error("GetDeskAvailability: booking time limits misconfigured: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrNoActivePolicy, err)
		}
		uc.logger.Error("GetDeskAvailability: failed to get active policy: %v", err)
		return nil, fmt.Errorf("%w: failed to get active policy: %v", ErrInternal, err)
	}

	window := policy.OfficeWindow(day)

	// 5. Бронирования, задевающие рабочее окно
	bookings, err := uc.bookingRepo.GetByDeskInRange(ctx, req.DeskID, window.Start, window.End)
	if err != nil {
		uc.logger.Error("GetDeskAvailability: failed to get bookings for desk id=%d: %v", req.DeskID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	busy := busyIntervals(bookings, window, uc.location)

	uc.logger.Info("GetDeskAvailability: desk=%d has %d busy intervals on %s",
		req.DeskID, len(busy), day.Format(domain.DateFormat))

	return &Response{
		DeskID:        req.DeskID,
		Date:          day,
		WorkdayStart:  window.Start,
		WorkdayEnd:    window.End,
		BusyIntervals: busy,
	}, nil
}
