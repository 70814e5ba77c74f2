package preview_payment

import "errors"

var (
	// ErrInvalidDatetime дата и время запроса не разбираются
	ErrInvalidDatetime = errors.New("preview_payment: invalid datetime")

	// ErrIntegrity нарушение инварианта уникальности в хранилище
	ErrIntegrity = errors.New("preview_payment: data integrity fault")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("preview_payment: internal error")
)
