package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// CreateGateRequest запрос на создание платёжной группы
type CreateGateRequest struct {
	Title        string   `json:"title"`
	Status       string   `json:"status"`
	GateType     string   `json:"gate_type"`
	PaymentValue *float64 `json:"payment_value,omitempty"`
	ActiveFrom   *string  `json:"active_from,omitempty"`
	ActiveTo     *string  `json:"active_to,omitempty"`
	Message      string   `json:"message"`
}

// AssignSlotRequest запрос на привязку платёжной группы к слоту
type AssignSlotRequest struct {
	SlotID int64 `json:"slot_id"`
}

// AssignDateRequest запрос на привязку платёжной группы к дате слота
type AssignDateRequest struct {
	SlotID int64  `json:"slot_id"`
	Date   string `json:"date"` // YYYY-MM-DD
}

// GateResponse ответ с данными платёжной группы
type GateResponse struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Status       string   `json:"status"`
	GateType     string   `json:"gate_type"`
	PaymentValue *float64 `json:"payment_value,omitempty"`
	ActiveFrom   *string  `json:"active_from,omitempty"`
	ActiveTo     *string  `json:"active_to,omitempty"`
	Message      string   `json:"message"`
	CreatedAt    string   `json:"created_at"`
}

// GateListResponse ответ со списком платёжных групп
type GateListResponse struct {
	Gates []GateResponse `json:"gates"`
	Total int            `json:"total"`
}

// SlotAssignmentResponse ответ с данными привязки уровня слота
type SlotAssignmentResponse struct {
	ID     int64 `json:"id"`
	GateID int64 `json:"gate_id"`
	SlotID int64 `json:"slot_id"`
}

// DateAssignmentResponse ответ с данными привязки уровня даты
type DateAssignmentResponse struct {
	ID     int64  `json:"id"`
	GateID int64  `json:"gate_id"`
	SlotID int64  `json:"slot_id"`
	Date   string `json:"date"`
}

// FromDomainGate преобразует domain модель в DTO
func FromDomainGate(g *domain.PaymentGate) *GateResponse {
	resp := &GateResponse{
		ID:           g.ID,
		Title:        g.Title,
		Status:       string(g.Status),
		GateType:     string(g.GateType),
		PaymentValue: g.PaymentValue,
		Message:      g.Message,
		CreatedAt:    g.CreatedAt.Format(time.RFC3339),
	}

	if g.ActiveFrom != nil {
		formatted := g.ActiveFrom.Format(domain.DatetimeFormat)
		resp.ActiveFrom = &formatted
	}
	if g.ActiveTo != nil {
		formatted := g.ActiveTo.Format(domain.DatetimeFormat)
		resp.ActiveTo = &formatted
	}

	return resp
}

// FromDomainGateList преобразует список domain моделей в DTO
func FromDomainGateList(gates []*domain.PaymentGate) *GateListResponse {
	items := make([]GateResponse, 0, len(gates))
	for _, g := range gates {
		items = append(items, *FromDomainGate(g))
	}

	return &GateListResponse{
		Gates: items,
		Total: len(items),
	}
}

// FromDomainSlotAssignment преобразует привязку уровня слота в DTO
func FromDomainSlotAssignment(a *domain.GateSlotAssignment) *SlotAssignmentResponse {
	return &SlotAssignmentResponse{
		ID:     a.ID,
		GateID: a.GateID,
		SlotID: a.SlotID,
	}
}

// FromDomainDateAssignment преобразует привязку уровня даты в DTO
func FromDomainDateAssignment(a *domain.GateDateAssignment) *DateAssignmentResponse {
	return &DateAssignmentResponse{
		ID:     a.ID,
		GateID: a.GateID,
		SlotID: a.SlotID,
		Date:   a.AssignedDate.Format(domain.DateFormat),
	}
}
