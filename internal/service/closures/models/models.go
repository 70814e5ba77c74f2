package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// CreateClosureRequest запрос на создание окна закрытия
type CreateClosureRequest struct {
	FromTS     string  `json:"from_ts"`
	ToTS       *string `json:"to_ts,omitempty"`
	WeeklyFrom *string `json:"weekly_from,omitempty"`
	WeeklyTo   *string `json:"weekly_to,omitempty"`
	Weekday    *int    `json:"weekday,omitempty"`
	Message    string  `json:"message"`
}

// ClosureResponse ответ с данными окна закрытия
type ClosureResponse struct {
	ID         int64   `json:"id"`
	FromTS     string  `json:"from_ts"`
	ToTS       *string `json:"to_ts,omitempty"`
	WeeklyFrom *string `json:"weekly_from,omitempty"`
	WeeklyTo   *string `json:"weekly_to,omitempty"`
	Weekday    *int    `json:"weekday,omitempty"`
	Message    string  `json:"message"`
	Recurring  bool    `json:"recurring"`
	CreatedAt  string  `json:"created_at"`
}

// ClosureListResponse ответ со списком окон закрытия
type ClosureListResponse struct {
	Closures []ClosureResponse `json:"closures"`
	Total    int               `json:"total"`
}

// StatusResponse ответ о статусе закрытия на момент времени
type StatusResponse struct {
	Closed  bool   `json:"closed"`
	Message string `json:"message,omitempty"`
}

// FromDomainClosure преобразует domain модель в DTO
func FromDomainClosure(c *domain.ClosureWindow) *ClosureResponse {
	resp := &ClosureResponse{
		ID:        c.ID,
		FromTS:    c.FromTS.Format(domain.DatetimeFormat),
		Message:   c.Message,
		Recurring: c.IsRecurring(),
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}

	if c.ToTS != nil {
		formatted := c.ToTS.Format(domain.DatetimeFormat)
		resp.ToTS = &formatted
	}
	if c.WeeklyFrom != nil {
		s := string(*c.WeeklyFrom)
		resp.WeeklyFrom = &s
	}
	if c.WeeklyTo != nil {
		s := string(*c.WeeklyTo)
		resp.WeeklyTo = &s
	}
	if c.Weekday != nil {
		wd := *c.Weekday
		resp.Weekday = &wd
	}

	return resp
}

// FromDomainClosureList преобразует список domain моделей в DTO
func FromDomainClosureList(closures []*domain.ClosureWindow) *ClosureListResponse {
	items := make([]ClosureResponse, 0, len(closures))
	for _, c := range closures {
		items = append(items, *FromDomainClosure(c))
	}

	return &ClosureListResponse{
		Closures: items,
		Total:    len(items),
	}
}
