package preview_payment

// Request модель запроса на предпросмотр платёжного шага
type Request struct {
	ReservedAt string // Дата и время предполагаемой брони
}

// Response модель ответа предпросмотра.
// При RequiresPayment = false остальные поля пусты.
type Response struct {
	RequiresPayment bool     `json:"requires_payment"`
	GateID          *int64   `json:"gate_id,omitempty"`
	GateTitle       *string  `json:"gate_title,omitempty"`
	PaymentAmount   *float64 `json:"payment_amount,omitempty"`
	Message         *string  `json:"message,omitempty"`
}
