package gates

import "errors"

var (
	// ErrGateNotFound платёжная группа не найдена
	ErrGateNotFound = errors.New("payment gate not found")

	// ErrSlotNotFound слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrAssignmentNotFound привязка не найдена
	ErrAssignmentNotFound = errors.New("assignment not found")

	// ErrSlotAlreadyAssigned слот уже привязан к платёжной группе
	ErrSlotAlreadyAssigned = errors.New("slot already assigned to a payment gate")

	// ErrDateAlreadyAssigned пара (слот, дата) уже привязана к платёжной группе
	ErrDateAlreadyAssigned = errors.New("slot date already assigned to a payment gate")

	// ErrAssignmentConflict слот не может одновременно иметь привязку уровня
	// слота и привязку уровня даты
	ErrAssignmentConflict = errors.New("slot-level and date-level assignments are mutually exclusive")

	// ErrWeekdayMismatch день недели даты не совпадает с днём недели слота
	ErrWeekdayMismatch = errors.New("date weekday does not match slot weekday")

	// ErrPaymentValueRequired для данного типа группы обязательна положительная сумма
	ErrPaymentValueRequired = errors.New("payment value must be positive for this gate type")

	// ErrInvalidInput невалидные входные данные
	ErrInvalidInput = errors.New("invalid input")

	// ErrIntegrity нарушение инварианта уникальности в хранилище.
	// Структурно невозможно при корректной работе привязок, означает
	// повреждение данных.
	ErrIntegrity = errors.New("assignment uniqueness invariant violated")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("internal service error")
)
