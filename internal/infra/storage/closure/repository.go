package closure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

var closureColumns = []string{
	"id",
	"from_ts",
	"to_ts",
	"weekly_from",
	"weekly_to",
	"weekday",
	"message",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с окнами закрытия
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория окон закрытия
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое окно закрытия.
// Валидация формы окна (см. domain.ClosureWindow) выполняется сервисным слоем.
func (r *Repository) Create(ctx context.Context, closure *domain.ClosureWindow) (*domain.ClosureWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("closure_windows").
		Columns(
			"from_ts",
			"to_ts",
			"weekly_from",
			"weekly_to",
			"weekday",
			"message",
		).
		Values(
			closure.FromTS,
			closure.ToTS,
			closure.WeeklyFrom,
			closure.WeeklyTo,
			closure.Weekday,
			closure.Message,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&closure.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	closure.CreatedAt = createdAt.Time
	closure.UpdatedAt = updatedAt.Time

	return closure, nil
}

// GetByID получает окно закрытия по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ClosureWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(closureColumns...).
		From("closure_windows").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var closure domain.ClosureWindow
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&closure.ID,
		&closure.FromTS,
		&closure.ToTS,
		&closure.WeeklyFrom,
		&closure.WeeklyTo,
		&closure.Weekday,
		&closure.Message,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClosureNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan closure: %v", ErrScanRow, err)
	}

	closure.CreatedAt = createdAt.Time
	closure.UpdatedAt = updatedAt.Time

	return &closure, nil
}

// ListCovering получает окна закрытия, чей абсолютный период покрывает
// указанный момент (from_ts <= ts, to_ts null или >= ts). Еженедельная
// составляющая проверяется на домене.
func (r *Repository) ListCovering(ctx context.Context, ts time.Time) ([]*domain.ClosureWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(closureColumns...).
		From("closure_windows").
		Where(squirrel.LtOrEq{"from_ts": ts}).
		Where(squirrel.Or{
			squirrel.Eq{"to_ts": nil},
			squirrel.GtOrEq{"to_ts": ts},
		}).
		OrderBy("from_ts ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListCovering - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListCovering - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanClosures(rows)
}

// ListVisible получает непросроченные окна закрытия (to_ts null или >= now)
func (r *Repository) ListVisible(ctx context.Context, now time.Time) ([]*domain.ClosureWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(closureColumns...).
		From("closure_windows").
		Where(squirrel.Or{
			squirrel.Eq{"to_ts": nil},
			squirrel.GtOrEq{"to_ts": now},
		}).
		OrderBy("from_ts ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListVisible - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListVisible - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanClosures(rows)
}

// Delete удаляет окно закрытия
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("closure_windows").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrClosureNotFound
	}

	return nil
}

// scanClosures сканирует результаты запроса в слайс окон закрытия
func (r *Repository) scanClosures(rows *sql.Rows) ([]*domain.ClosureWindow, error) {
	closures := make([]*domain.ClosureWindow, 0)

	for rows.Next() {
		var closure domain.ClosureWindow
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&closure.ID,
			&closure.FromTS,
			&closure.ToTS,
			&closure.WeeklyFrom,
			&closure.WeeklyTo,
			&closure.Weekday,
			&closure.Message,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanClosures - scan row: %v", ErrScanRow, err)
		}

		closure.CreatedAt = createdAt.Time
		closure.UpdatedAt = updatedAt.Time

		closures = append(closures, &closure)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanClosures - rows error: %v", ErrScanRow, err)
	}

	return closures, nil
}
