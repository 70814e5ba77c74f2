package paymentservice

// InitiatePaymentRequest запрос на инициацию платежа
type InitiatePaymentRequest struct {
	Amount            float64 `json:"amount"`
	ExternalReference string  `json:"external_reference"`
	Description       string  `json:"description,omitempty"`
}

// Payment модель созданного платежа из платёжного сервиса
type Payment struct {
	PaymentReference string `json:"payment_reference"`
	PaymentURL       string `json:"payment_url"`
	Status           string `json:"status"`
}

// ErrorResponse модель ошибки от платёжного сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
