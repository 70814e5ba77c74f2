package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Slot represents a recurring weekly reservation window ("turn").
// Reservations may only be placed at datetimes falling inside a slot,
// aligned to the slot's step.
type Slot struct {
	ID          int64
	Name        string
	Weekday     int // 0 = Sunday .. 6 = Saturday, matches time.Weekday
	StartsAt    types.TimeString
	EndsAt      types.TimeString
	StepMinutes int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contains returns true if the time of day falls inside the slot,
// boundaries included
func (s *Slot) Contains(t types.TimeString) bool {
	return !t.IsBefore(s.StartsAt) && !t.IsAfter(s.EndsAt)
}

// MatchesDatetime returns true if the datetime's weekday and time of day
// fall inside the slot
func (s *Slot) MatchesDatetime(t time.Time) bool {
	return s.Weekday == int(t.Weekday()) && s.Contains(types.NewTimeString(t))
}

// OverlapsWith returns true if the two slots' [StartsAt, EndsAt] intervals
// intersect, boundaries included. Weekday is not compared here; callers
// only check slots of the same weekday.
func (s *Slot) OverlapsWith(other *Slot) bool {
	return other.Contains(s.StartsAt) || other.Contains(s.EndsAt) ||
		s.Contains(other.StartsAt) || s.Contains(other.EndsAt)
}

// HasSameName returns true if the slots' names match case-insensitively
func (s *Slot) HasSameName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(name))
}

// ValidTimes returns every bookable time of day for the slot: from StartsAt
// to EndsAt inclusive, stepping by StepMinutes. Pure function of the slot.
func (s *Slot) ValidTimes() []types.TimeString {
	if s.StepMinutes <= 0 {
		return []types.TimeString{}
	}

	times := make([]types.TimeString, 0)
	current := s.StartsAt

	for !current.IsAfter(s.EndsAt) {
		times = append(times, current)

		next, err := current.AddMinutes(s.StepMinutes)
		if err != nil || !next.IsAfter(current) {
			break
		}
		current = next
	}

	return times
}
