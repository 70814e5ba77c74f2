package domain

// Default configuration values
const (
	DefaultMaxPeopleCount = 12
)

// Business validation constants
const (
	MinStepMinutes = 1
	MaxStepMinutes = 480 // 8 hours

	MinNameLength = 2

	MinWeekday = 0 // Sunday
	MaxWeekday = 6 // Saturday

	MaxTitleLength   = 200
	MaxMessageLength = 500
)

// Time format constants
const (
	TimeFormat     = "15:04"            // HH:MM
	DateFormat     = "2006-01-02"       // YYYY-MM-DD
	DatetimeFormat = "2006-01-02 15:04" // YYYY-MM-DD HH:MM
)

// IsValidWeekday returns true for weekday values 0..6
func IsValidWeekday(weekday int) bool {
	return weekday >= MinWeekday && weekday <= MaxWeekday
}
