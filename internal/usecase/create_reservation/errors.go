package create_reservation

import "errors"

var (
	// ErrDuplicateReservation активное бронирование на ту же пару (email, время)
	// уже существует
	ErrDuplicateReservation = errors.New("create_reservation: duplicate active reservation")

	// ErrPaymentInitFailed платёжный сервис отклонил или не смог инициировать
	// платёж. Вставка бронирования откатывается целиком.
	ErrPaymentInitFailed = errors.New("create_reservation: payment initiation failed")

	// ErrIntegrity нарушение инварианта уникальности в хранилище, не ошибка
	// валидации пользовательского ввода
	ErrIntegrity = errors.New("create_reservation: data integrity fault")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
