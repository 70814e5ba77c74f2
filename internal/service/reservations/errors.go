package reservations

import "errors"

var (
	// ErrReservationNotFound бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrCannotCancel бронирование уже отменено
	ErrCannotCancel = errors.New("reservation cannot be cancelled")

	// ErrInternal внутренняя ошибка сервиса
	ErrInternal = errors.New("internal service error")
)
