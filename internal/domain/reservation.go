package domain

import "time"

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	// StatusPendingPayment is set when a payment gate applied at intake and
	// the external payment flow has not completed yet
	StatusPendingPayment ReservationStatus = "pending_payment"

	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// IsValid returns true for a known reservation status
func (s ReservationStatus) IsValid() bool {
	return s == StatusPendingPayment || s == StatusConfirmed || s == StatusCancelled
}

// Reservation represents a booked table at a specific datetime
type Reservation struct {
	ID          int64
	ReservedAt  time.Time
	PeopleCount int

	FirstName string
	LastName  string
	Phone     string
	Email     string

	Status           ReservationStatus
	PaymentReference *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation has not been cancelled
func (r *Reservation) IsActive() bool {
	return r.Status != StatusCancelled
}

// CanBeCancelled returns true if the reservation can still be cancelled
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusPendingPayment || r.Status == StatusConfirmed
}

// IsPendingPayment returns true while the external payment flow is incomplete
func (r *Reservation) IsPendingPayment() bool {
	return r.Status == StatusPendingPayment
}
