package leave

import (
	"time"

	"github.com/frahmantamala/leave-management/internal"
)

const DateLayout = "2006-01-02"

// ParseDate parses a calendar date into UTC midnight.
func ParseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, internal.NewValidationFieldError(field, field+" is required", internal.ErrCodeInvalidDate)
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, internal.NewValidationFieldError(field, field+" must be formatted as YYYY-MM-DD", internal.ErrCodeInvalidDate)
	}
	return t, nil
}

// DateOf returns the calendar date of t in loc as UTC midnight, so it compares
// directly with stored start and end dates.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const secondsPerDay = 24 * 60 * 60

// dayNumber is the count of days between 1970-01-01 and the calendar date of t.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// InclusiveDays counts calendar days from start to end, both included.
func InclusiveDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(dayNumber(end)-dayNumber(start)) + 1
}

// WeekendDays counts the Saturdays and Sundays inside [start, end].
func WeekendDays(start, end time.Time) int {
	days := InclusiveDays(start, end)
	count := days / 7 * 2
	first := int(start.Weekday())
	for i := 0; i < days%7; i++ {
		if wd := time.Weekday((first + i) % 7); wd == time.Saturday || wd == time.Sunday {
			count++
		}
	}
	return count
}

// YearBounds returns [Jan 1, next Jan 1) of year in UTC.
func YearBounds(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}
