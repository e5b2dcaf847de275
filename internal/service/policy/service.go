package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
	policyRepo "github.com/m04kA/SMC-DeskBookingService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-DeskBookingService/internal/service/policy/models"
)

// Service сервис для работы с политикой бронирования
type Service struct {
	policyRepo PolicyRepository
	txManager  TransactionManager
	logger     Logger
}

// NewService создает новый экземпляр сервиса политики
func NewService(
	policyRepo PolicyRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		policyRepo: policyRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// GetActive получает активную политику бронирования
// Публичный метод - доступен всем
func (s *Service) GetActive(ctx context.Context) (*models.PolicyResponse, error) {
	s.logger.Info("GetActive: fetching active policy")

	policy, err := s.policyRepo.GetActive(ctx)
	if err != nil {
		return nil, s.mapRepoError("GetActive", err)
	}

	return models.FromDomainPolicy(policy), nil
}

// Update изменяет активную политику
// Доступно только администратору. Новые значения действуют для последующих проверок,
// уже созданные бронирования не пересматриваются
func (s *Service) Update(ctx context.Context, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Update: updating active policy by user=%d", req.Actor.UserID)

	// 1. Проверяем права доступа
	if !req.Actor.IsAdmin() {
		s.logger.Warn("Update: user=%d is not an admin", req.Actor.UserID)
		return nil, ErrAccessDenied
	}

	var updated *domain.BookingTimeLimitsPolicy

	// 2. Чтение, проверка и запись в одной транзакции
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.policyRepo.GetActive(txCtx)
		if err != nil {
			return s.mapRepoError("Update", err)
		}

		next := req.ApplyTo(*current)
		if err := validatePolicy(&next); err != nil {
			s.logger.Warn("Update: validation failed: %v", err)
			return err
		}

		updated, err = s.policyRepo.Update(txCtx, &next)
		if err != nil {
			return s.mapRepoError("Update", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated policy id=%d", updated.ID)
	return models.FromDomainPolicy(updated), nil
}

// mapRepoError приводит ошибку репозитория к ошибке сервиса
func (s *Service) mapRepoError(op string, err error) error {
	if errors.Is(err, policyRepo.ErrNoActivePolicy) || errors.Is(err, policyRepo.ErrMultipleActivePolicies) {
		s.logger.Error("%s: booking time limits misconfigured: %v", op, err)
		return fmt.Errorf("%w: %v", ErrNoActivePolicy, err)
	}
	s.logger.Error("%s: repository error: %v", op, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

// validatePolicy валидирует параметры политики
func validatePolicy(p *domain.BookingTimeLimitsPolicy) error {
	// Проверяем maxDaysInAdvance
	if p.MaxDaysInAdvance < domain.MinDaysInAdvance || p.MaxDaysInAdvance > domain.MaxDaysInAdvance {
		return fmt.Errorf("%w: maxDaysInAdvance must be between %d and %d",
			ErrInvalidInput, domain.MinDaysInAdvance, domain.MaxDaysInAdvance)
	}

	// Проверяем maxHoursPerWeek
	if p.MaxHoursPerWeek < domain.MinHoursPerWeek || p.MaxHoursPerWeek > domain.MaxHoursPerWeek {
		return fmt.Errorf("%w: maxHoursPerWeek must be between %d and %d",
			ErrInvalidInput, domain.MinHoursPerWeek, domain.MaxHoursPerWeek)
	}

	hours := map[string]int{
		"minHours":        p.MinHours,
		"maxHours":        p.MaxHours,
		"lunchStartHour":  p.LunchStartHour,
		"lunchEndHour":    p.LunchEndHour,
		"officeStartHour": p.OfficeStartHour,
		"officeEndHour":   p.OfficeEndHour,
	}
	for name, value := range hours {
		if value < domain.MinHourOfDay || value > domain.MaxHourOfDay {
			return fmt.Errorf("%w: %s must be between %d and %d",
				ErrInvalidInput, name, domain.MinHourOfDay, domain.MaxHourOfDay)
		}
	}

	if p.MinHours > p.MaxHours {
		return fmt.Errorf("%w: minHours must not exceed maxHours", ErrInvalidInput)
	}

	if p.LunchStartHour >= p.LunchEndHour {
		return fmt.Errorf("%w: lunchStartHour must be before lunchEndHour", ErrInvalidInput)
	}

	if p.OfficeStartHour >= p.OfficeEndHour {
		return fmt.Errorf("%w: officeStartHour must be before officeEndHour", ErrInvalidInput)
	}

	return nil
}
