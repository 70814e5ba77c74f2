package closures

import "errors"

var (
	// ErrClosureNotFound окно закрытия не найдено
	ErrClosureNotFound = errors.New("closure window not found")

	// ErrInvalidShape набор полей окна не образует ни одну из допустимых форм
	ErrInvalidShape = errors.New("invalid closure window shape")

	// ErrInvalidTimeRange конец окна раньше начала
	ErrInvalidTimeRange = errors.New("closure window ends before it starts")

	// ErrInvalidInput невалидные входные данные
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("internal service error")
)
