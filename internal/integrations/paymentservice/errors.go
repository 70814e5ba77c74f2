package paymentservice

import "errors"

var (
	// ErrPaymentRejected возвращается, когда платёжный сервис отклонил платёж
	ErrPaymentRejected = errors.New("payment was rejected by payment service")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("paymentservice client: invalid response")
)
