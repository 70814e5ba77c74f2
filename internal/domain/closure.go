package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ClosureWindow represents a period during which the venue is closed for
// reservations ("holiday"). Four legal shapes:
//  1. bounded absolute period: ToTS set, weekly fields nil
//  2. unbounded absolute period: only together with weekly fields
//  3. single bounded window: FromTS and ToTS on the same day
//  4. recurring weekly closure: WeeklyFrom, WeeklyTo and Weekday all set
type ClosureWindow struct {
	ID         int64
	FromTS     time.Time
	ToTS       *time.Time
	WeeklyFrom *types.TimeString
	WeeklyTo   *types.TimeString
	Weekday    *int // 0 = Sunday .. 6 = Saturday
	Message    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRecurring returns true if the closure repeats weekly
func (c *ClosureWindow) IsRecurring() bool {
	return c.WeeklyFrom != nil && c.WeeklyTo != nil && c.Weekday != nil
}

// IsActiveAt returns true if the closure covers the given timestamp.
// All boundaries are inclusive.
func (c *ClosureWindow) IsActiveAt(ts time.Time) bool {
	if ts.Before(c.FromTS) {
		return false
	}
	if c.ToTS != nil && ts.After(*c.ToTS) {
		return false
	}

	if !c.IsRecurring() {
		return true
	}

	if int(ts.Weekday()) != *c.Weekday {
		return false
	}

	tod := types.NewTimeString(ts)
	return !tod.IsBefore(*c.WeeklyFrom) && !tod.IsAfter(*c.WeeklyTo)
}

// IsVisibleAt returns true if the closure has not expired at the given time
func (c *ClosureWindow) IsVisibleAt(now time.Time) bool {
	return c.ToTS == nil || !c.ToTS.Before(now)
}
