package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	ReservedAt  string `json:"reservedAt"` // "2026-03-09 13:00" или RFC3339
	PeopleCount int    `json:"peopleCount"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	ID          int64  `json:"id"`
	ReservedAt  string `json:"reservedAt"`
	PeopleCount int    `json:"peopleCount"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Status      string `json:"status"`

	RequiresPayment  bool     `json:"requiresPayment"`
	PaymentReference *string  `json:"paymentReference,omitempty"`
	PaymentURL       *string  `json:"paymentUrl,omitempty"`
	PaymentAmount    *float64 `json:"paymentAmount,omitempty"`

	CreatedAt string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest() *createReservation.Request {
	return &createReservation.Request{
		ReservedAt:  r.ReservedAt,
		PeopleCount: r.PeopleCount,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Phone:       r.Phone,
		Email:       r.Email,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	return &ReservationResponse{
		ID:               resp.ID,
		ReservedAt:       resp.ReservedAt.Format(domain.DatetimeFormat),
		PeopleCount:      resp.PeopleCount,
		FirstName:        resp.FirstName,
		LastName:         resp.LastName,
		Phone:            resp.Phone,
		Email:            resp.Email,
		Status:           resp.Status,
		RequiresPayment:  resp.RequiresPayment,
		PaymentReference: resp.PaymentReference,
		PaymentURL:       resp.PaymentURL,
		PaymentAmount:    resp.PaymentAmount,
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
	}
}
