package gate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

// uniqueViolation SQLSTATE код нарушения уникальности в Postgres
const uniqueViolation = "23505"

var gateColumns = []string{
	"id",
	"title",
	"status",
	"gate_type",
	"payment_value",
	"active_from",
	"active_to",
	"message",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с платёжными группами и их привязками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платёжных групп
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateGate создает новую платёжную группу
func (r *Repository) CreateGate(ctx context.Context, gate *domain.PaymentGate) (*domain.PaymentGate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payment_gates").
		Columns(
			"title",
			"status",
			"gate_type",
			"payment_value",
			"active_from",
			"active_to",
			"message",
		).
		Values(
			gate.Title,
			gate.Status,
			gate.GateType,
			gate.PaymentValue,
			gate.ActiveFrom,
			gate.ActiveTo,
			gate.Message,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateGate - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&gate.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: CreateGate - execute insert: %v", ErrExecQuery, err)
	}

	gate.CreatedAt = createdAt.Time
	gate.UpdatedAt = updatedAt.Time

	return gate, nil
}

// GetGateByID получает платёжную группу по ID
func (r *Repository) GetGateByID(ctx context.Context, id int64) (*domain.PaymentGate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(gateColumns...).
		From("payment_gates").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetGateByID - build select query: %v", ErrBuildQuery, err)
	}

	var gate domain.PaymentGate
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&gate.ID,
		&gate.Title,
		&gate.Status,
		&gate.GateType,
		&gate.PaymentValue,
		&gate.ActiveFrom,
		&gate.ActiveTo,
		&gate.Message,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetGateByID - scan gate: %v", ErrScanRow, err)
	}

	gate.CreatedAt = createdAt.Time
	gate.UpdatedAt = updatedAt.Time

	return &gate, nil
}

// ListGates получает все платёжные группы
func (r *Repository) ListGates(ctx context.Context) ([]*domain.PaymentGate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(gateColumns...).
		From("payment_gates").
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListGates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListGates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanGates(rows)
}

// ListActiveGates получает группы со статусом active, чьё окно действия
// покрывает указанный момент (границы включительно)
func (r *Repository) ListActiveGates(ctx context.Context, now time.Time) ([]*domain.PaymentGate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(gateColumns...).
		From("payment_gates").
		Where(squirrel.Eq{"status": domain.GateStatusActive}).
		Where(squirrel.Or{
			squirrel.Eq{"active_from": nil},
			squirrel.LtOrEq{"active_from": now},
		}).
		Where(squirrel.Or{
			squirrel.Eq{"active_to": nil},
			squirrel.GtOrEq{"active_to": now},
		}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveGates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveGates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanGates(rows)
}

// CreateSlotAssignment создает привязку группы ко всем повторениям слота.
// Уникальный индекс по slot_id - последний рубеж против гонок.
func (r *Repository) CreateSlotAssignment(ctx context.Context, assignment *domain.GateSlotAssignment) (*domain.GateSlotAssignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("gate_slot_assignments").
		Columns("gate_id", "slot_id").
		Values(assignment.GateID, assignment.SlotID).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateSlotAssignment - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&assignment.ID, &createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotAlreadyAssigned
		}
		return nil, fmt.Errorf("%w: CreateSlotAssignment - execute insert: %v", ErrExecQuery, err)
	}

	assignment.CreatedAt = createdAt.Time

	return assignment, nil
}

// CreateDateAssignment создает привязку группы к конкретной дате слота.
// Уникальный индекс по (slot_id, assigned_date) - последний рубеж против гонок.
func (r *Repository) CreateDateAssignment(ctx context.Context, assignment *domain.GateDateAssignment) (*domain.GateDateAssignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("gate_date_assignments").
		Columns("gate_id", "slot_id", "assigned_date").
		Values(assignment.GateID, assignment.SlotID, assignment.AssignedDate).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateDateAssignment - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&assignment.ID, &createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDateAlreadyAssigned
		}
		return nil, fmt.Errorf("%w: CreateDateAssignment - execute insert: %v", ErrExecQuery, err)
	}

	assignment.CreatedAt = createdAt.Time

	return assignment, nil
}

// ListSlotAssignmentsBySlotID получает привязки уровня слота для указанного слота.
// Внутри транзакции добавляет FOR UPDATE - проверки взаимного исключения
// блокируют привязки слота.
func (r *Repository) ListSlotAssignmentsBySlotID(ctx context.Context, slotID int64) ([]*domain.GateSlotAssignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "gate_id", "slot_id", "created_at").
		From("gate_slot_assignments").
		Where(squirrel.Eq{"slot_id": slotID}).
		OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSlotAssignmentsBySlotID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSlotAssignmentsBySlotID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	assignments := make([]*domain.GateSlotAssignment, 0)
	for rows.Next() {
		var a domain.GateSlotAssignment
		var createdAt sql.NullTime

		if err := rows.Scan(&a.ID, &a.GateID, &a.SlotID, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListSlotAssignmentsBySlotID - scan row: %v", ErrScanRow, err)
		}

		a.CreatedAt = createdAt.Time
		assignments = append(assignments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSlotAssignmentsBySlotID - rows error: %v", ErrScanRow, err)
	}

	return assignments, nil
}

// ListDateAssignmentsBySlotID получает все привязки уровня даты для указанного слота.
// Внутри транзакции добавляет FOR UPDATE.
func (r *Repository) ListDateAssignmentsBySlotID(ctx context.Context, slotID int64) ([]*domain.GateDateAssignment, error) {
	selectBuilder := psqlbuilder.Select("id", "gate_id", "slot_id", "assigned_date", "created_at").
		From("gate_date_assignments").
		Where(squirrel.Eq{"slot_id": slotID}).
		OrderBy("assigned_date ASC")

	return r.listDateAssignments(ctx, selectBuilder)
}

// ListDateAssignmentsBySlotAndDate получает привязки для пары (слот, дата).
// По инварианту уникальности ожидается не больше одной; большее число -
// признак нарушения целостности.
func (r *Repository) ListDateAssignmentsBySlotAndDate(ctx context.Context, slotID int64, date time.Time) ([]*domain.GateDateAssignment, error) {
	selectBuilder := psqlbuilder.Select("id", "gate_id", "slot_id", "assigned_date", "created_at").
		From("gate_date_assignments").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.Eq{"assigned_date": date}).
		OrderBy("id ASC")

	return r.listDateAssignments(ctx, selectBuilder)
}

// DeleteSlotAssignment удаляет привязку уровня слота
func (r *Repository) DeleteSlotAssignment(ctx context.Context, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("gate_slot_assignments").
		Where(squirrel.Eq{"slot_id": slotID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteSlotAssignment - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteSlotAssignment - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteSlotAssignment - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAssignmentNotFound
	}

	return nil
}

// DeleteDateAssignment удаляет привязку уровня даты
func (r *Repository) DeleteDateAssignment(ctx context.Context, slotID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("gate_date_assignments").
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.Eq{"assigned_date": date}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteDateAssignment - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteDateAssignment - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteDateAssignment - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrAssignmentNotFound
	}

	return nil
}

// listDateAssignments выполняет запрос привязок уровня даты с FOR UPDATE внутри транзакции
func (r *Repository) listDateAssignments(ctx context.Context, selectBuilder squirrel.SelectBuilder) ([]*domain.GateDateAssignment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: listDateAssignments - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: listDateAssignments - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	assignments := make([]*domain.GateDateAssignment, 0)
	for rows.Next() {
		var a domain.GateDateAssignment
		var createdAt sql.NullTime

		if err := rows.Scan(&a.ID, &a.GateID, &a.SlotID, &a.AssignedDate, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: listDateAssignments - scan row: %v", ErrScanRow, err)
		}

		a.CreatedAt = createdAt.Time
		assignments = append(assignments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listDateAssignments - rows error: %v", ErrScanRow, err)
	}

	return assignments, nil
}

// scanGates сканирует результаты запроса в слайс платёжных групп
func (r *Repository) scanGates(rows *sql.Rows) ([]*domain.PaymentGate, error) {
	gates := make([]*domain.PaymentGate, 0)

	for rows.Next() {
		var gate domain.PaymentGate
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&gate.ID,
			&gate.Title,
			&gate.Status,
			&gate.GateType,
			&gate.PaymentValue,
			&gate.ActiveFrom,
			&gate.ActiveTo,
			&gate.Message,
			&createdAt,
			&updatedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("%w: scanGates - scan row: %v", ErrScanRow, err)
		}

		gate.CreatedAt = createdAt.Time
		gate.UpdatedAt = updatedAt.Time

		gates = append(gates, &gate)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanGates - rows error: %v", ErrScanRow, err)
	}

	return gates, nil
}

// isUniqueViolation возвращает true для нарушения уникального индекса Postgres
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
