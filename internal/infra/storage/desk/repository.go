package desk

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-DeskBookingService/internal/domain"
	"github.com/m04kA/SMC-DeskBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DeskBookingService/pkg/psqlbuilder"
)

// Repository репозиторий для чтения столов
// Столы принадлежат административной подсистеме, здесь они только читаются
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория столов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает стол по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Desk, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"zone_id",
		"type",
		"status",
		"is_temporarily_available",
		"temporary_available_from",
		"temporary_available_until",
	).
		From("desks").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var desk domain.Desk
	var zoneID sql.NullInt64

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&desk.ID,
		&desk.Name,
		&zoneID,
		&desk.Type,
		&desk.Status,
		&desk.IsTemporarilyAvailable,
		&desk.TemporaryAvailableFrom,
		&desk.TemporaryAvailableUntil,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDeskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan desk: %w", ErrScanRow, err)
	}

	desk.ZoneID = zoneID.Int64

	return &desk, nil
}
