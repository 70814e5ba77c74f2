package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// CreateSlotRequest запрос на создание слота
type CreateSlotRequest struct {
	Name        string `json:"name"`
	Weekday     int    `json:"weekday"`     // 0 = воскресенье .. 6 = суббота
	StartsAt    string `json:"startsAt"`    // "12:00"
	EndsAt      string `json:"endsAt"`      // "14:00"
	StepMinutes int    `json:"stepMinutes"` // шаг бронирования в минутах
}

// UpdateSlotRequest запрос на обновление слота
type UpdateSlotRequest struct {
	Name        string `json:"name"`
	Weekday     int    `json:"weekday"`
	StartsAt    string `json:"startsAt"`
	EndsAt      string `json:"endsAt"`
	StepMinutes int    `json:"stepMinutes"`
}

// Response модели

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Weekday     int      `json:"weekday"`
	StartsAt    string   `json:"startsAt"`
	EndsAt      string   `json:"endsAt"`
	StepMinutes int      `json:"stepMinutes"`
	ValidTimes  []string `json:"validTimes"` // все допустимые времена брони внутри слота

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SlotListResponse ответ со списком слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.Slot) *SlotResponse {
	if s == nil {
		return nil
	}

	validTimes := s.ValidTimes()
	times := make([]string, len(validTimes))
	for i, t := range validTimes {
		times[i] = t.String()
	}

	return &SlotResponse{
		ID:          s.ID,
		Name:        s.Name,
		Weekday:     s.Weekday,
		StartsAt:    s.StartsAt.String(),
		EndsAt:      s.EndsAt.String(),
		StepMinutes: s.StepMinutes,
		ValidTimes:  times,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(slots []*domain.Slot) *SlotListResponse {
	if slots == nil {
		return &SlotListResponse{
			Slots: []SlotResponse{},
		}
	}

	resp := &SlotListResponse{
		Slots: make([]SlotResponse, len(slots)),
	}

	for i, slot := range slots {
		if slotResp := FromDomainSlot(slot); slotResp != nil {
			resp.Slots[i] = *slotResp
		}
	}

	return resp
}
