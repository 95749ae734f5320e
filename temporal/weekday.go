package temporal

import (
	"fmt"
	"strings"
	"time"
)

var weekdayCodes = [...]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// ParseWeekday parses a two-letter iCalendar weekday code such as "MO"
func ParseWeekday(s string) (time.Weekday, error) {
	upper := strings.ToUpper(s)
	for i, code := range weekdayCodes {
		if code == upper {
			return time.Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
}

// WeekdayCode returns the two-letter iCalendar code of a weekday
func WeekdayCode(d time.Weekday) string {
	return weekdayCodes[d%7]
}

// ISOWeekday converts d to the DayOfWeek field numbering (Monday = 1, Sunday = 7)
func ISOWeekday(d time.Weekday) int {
	if d == time.Sunday {
		return 7
	}
	return int(d)
}

// FromISOWeekday is the inverse of ISOWeekday
func FromISOWeekday(n int) time.Weekday {
	return time.Weekday(n % 7)
}

// weekOneStart returns the zero-based day of year on which week 1 of year
// begins. It is negative when week 1 starts in the previous December.
func weekOneStart(year int, wkst time.Weekday) int {
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).Weekday()
	offset := (int(jan1) - int(wkst) + 7) % 7
	if offset <= 3 {
		return -offset
	}
	return 7 - offset
}

func weeksInYear(year int, wkst time.Weekday) int {
	return (yearLength(year) + weekOneStart(year+1, wkst) - weekOneStart(year, wkst)) / 7
}

// weekOfYear returns the week number of the zero-based day of year yday
func weekOfYear(year, yday int, wkst time.Weekday) int {
	start := weekOneStart(year, wkst)
	if yday < start {
		prev := year - 1
		return weekOfYear(prev, yday+yearLength(prev), wkst)
	}
	week := (yday-start)/7 + 1
	if week > weeksInYear(year, wkst) {
		return 1
	}
	return week
}

func yearLength(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}

func daysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
