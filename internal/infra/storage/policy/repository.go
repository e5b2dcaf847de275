package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
	"github.com/m04kA/SMC-DeskBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DeskBookingService/pkg/psqlbuilder"
)

const tablePolicies = "booking_time_limits"

var policyColumns = []string{
	"id",
	"min_hours",
	"max_hours",
	"lunch_start_hour",
	"lunch_end_hour",
	"office_start_hour",
	"office_end_hour",
	"max_days_in_advance",
	"max_hours_per_week",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с политикой ограничений бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политики
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetActive получает единственную активную политику
// Если активных политик нет или их больше одной, это ошибка конфигурации
// Внутри транзакции строка блокируется от изменения до коммита (FOR SHARE)
func (r *Repository) GetActive(ctx context.Context) (*domain.BookingTimeLimitsPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(policyColumns...).
		From(tablePolicies).
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		Limit(2)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR SHARE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	policies := make([]*domain.BookingTimeLimitsPolicy, 0, 1)
	for rows.Next() {
		policy, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActive - scan row: %w", ErrScanRow, err)
		}
		policies = append(policies, policy)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActive - rows error: %w", ErrScanRow, err)
	}

	switch len(policies) {
	case 0:
		return nil, ErrNoActivePolicy
	case 1:
		return policies[0], nil
	default:
		return nil, ErrMultipleActivePolicies
	}
}

// Update заменяет значения активной политики
// ID и признак активности не меняются
func (r *Repository) Update(ctx context.Context, policy *domain.BookingTimeLimitsPolicy) (*domain.BookingTimeLimitsPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tablePolicies).
		Set("min_hours", policy.MinHours).
		Set("max_hours", policy.MaxHours).
		Set("lunch_start_hour", policy.LunchStartHour).
		Set("lunch_end_hour", policy.LunchEndHour).
		Set("office_start_hour", policy.OfficeStartHour).
		Set("office_end_hour", policy.OfficeEndHour).
		Set("max_days_in_advance", policy.MaxDaysInAdvance).
		Set("max_hours_per_week", policy.MaxHoursPerWeek).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": policy.ID}).
		Where(squirrel.Eq{"is_active": true}).
		Suffix("RETURNING " + strings.Join(policyColumns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := scanPolicy(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoActivePolicy
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return updated, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPolicy(row rowScanner) (*domain.BookingTimeLimitsPolicy, error) {
	var policy domain.BookingTimeLimitsPolicy
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&policy.ID,
		&policy.MinHours,
		&policy.MaxHours,
		&policy.LunchStartHour,
		&policy.LunchEndHour,
		&policy.OfficeStartHour,
		&policy.OfficeEndHour,
		&policy.MaxDaysInAdvance,
		&policy.MaxHoursPerWeek,
		&policy.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return &policy, nil
}
