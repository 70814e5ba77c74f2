package domain

import "time"

// GateStatus represents the lifecycle status of a payment gate
type GateStatus string

const (
	GateStatusActive   GateStatus = "active"
	GateStatusInactive GateStatus = "inactive"
)

// IsValid returns true for a known gate status
func (s GateStatus) IsValid() bool {
	return s == GateStatusActive || s == GateStatusInactive
}

// GateType represents the kind of payment step a gate imposes
type GateType string

const (
	// GateTypeExternalPayment requires a monetary pre-payment through the
	// external payment collaborator
	GateTypeExternalPayment GateType = "external_payment"

	// GateTypeNoPayment marks the slot as gated without a monetary amount
	// (e.g. confirmation-only preorder flows)
	GateTypeNoPayment GateType = "no_payment"
)

// IsValid returns true for a known gate type
func (t GateType) IsValid() bool {
	return t == GateTypeExternalPayment || t == GateTypeNoPayment
}

// RequiresAmount returns true if the gate type requires a positive
// monetary amount
func (t GateType) RequiresAmount() bool {
	return t == GateTypeExternalPayment
}

// PaymentGate represents a pre-payment rule ("preorder group") that can be
// assigned to recurring slots or to specific slot dates.
type PaymentGate struct {
	ID           int64
	Title        string
	Status       GateStatus
	GateType     GateType
	PaymentValue *float64
	ActiveFrom   *time.Time
	ActiveTo     *time.Time
	Message      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the gate status is active
func (g *PaymentGate) IsActive() bool {
	return g.Status == GateStatusActive
}

// IsActiveAt returns true if the gate is active and its validity window
// covers the given time, boundaries included
func (g *PaymentGate) IsActiveAt(now time.Time) bool {
	if !g.IsActive() {
		return false
	}
	if g.ActiveFrom != nil && now.Before(*g.ActiveFrom) {
		return false
	}
	if g.ActiveTo != nil && now.After(*g.ActiveTo) {
		return false
	}
	return true
}

// Activate transitions the gate to the active status
func (g *PaymentGate) Activate() {
	g.Status = GateStatusActive
}

// Deactivate transitions the gate to the inactive status
func (g *PaymentGate) Deactivate() {
	g.Status = GateStatusInactive
}

// GateSlotAssignment binds a gate to every occurrence of a recurring slot.
// A slot may appear in at most one such assignment globally.
type GateSlotAssignment struct {
	ID        int64
	GateID    int64
	SlotID    int64
	CreatedAt time.Time
}

// GateDateAssignment binds a gate to one calendar date of a slot.
// A (slot, date) pair may appear in at most one such assignment globally,
// and is mutually exclusive with a slot-level assignment for the same slot.
type GateDateAssignment struct {
	ID           int64
	GateID       int64
	SlotID       int64
	AssignedDate time.Time // date only, time component zero
	CreatedAt    time.Time
}
