package gate

import "errors"

var (
	// ErrGateNotFound возвращается, когда платёжная группа не найдена
	ErrGateNotFound = errors.New("gate.repository: payment gate not found")

	// ErrAssignmentNotFound возвращается, когда привязка не найдена
	ErrAssignmentNotFound = errors.New("gate.repository: assignment not found")

	// ErrSlotAlreadyAssigned возвращается при нарушении уникальности привязки слота
	ErrSlotAlreadyAssigned = errors.New("gate.repository: slot already assigned to a gate")

	// ErrDateAlreadyAssigned возвращается при нарушении уникальности привязки (слот, дата)
	ErrDateAlreadyAssigned = errors.New("gate.repository: slot date already assigned to a gate")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("gate.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("gate.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("gate.repository: failed to scan row")
)
