// Package temporal provides the calendar values that recurrence rules operate on.
//
// A Value exposes individual calendar fields (minute of hour, day of week, ...)
// that can be read and replaced without mutating the original value.
package temporal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownFrequency = errors.New("unknown frequency")
	ErrInvalidFormat    = errors.New("invalid date-time format")
	ErrUnknownWeekday   = errors.New("unknown weekday")
)

// Field identifies a calendar field of a Value
type Field int

const (
	SecondOfMinute Field = iota + 1
	MinuteOfHour
	HourOfDay
	DayOfWeek // 1 = Monday ... 7 = Sunday
	DayOfMonth
	DayOfYear
	WeekOfYear // weeks begin on the value's week start, week 1 has at least 4 days
	MonthOfYear
)

var fieldNames = map[Field]string{
	SecondOfMinute: "SecondOfMinute",
	MinuteOfHour:   "MinuteOfHour",
	HourOfDay:      "HourOfDay",
	DayOfWeek:      "DayOfWeek",
	DayOfMonth:     "DayOfMonth",
	DayOfYear:      "DayOfYear",
	WeekOfYear:     "WeekOfYear",
	MonthOfYear:    "MonthOfYear",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Unit returns the unit one step of the field spans
func (f Field) Unit() Unit {
	switch f {
	case SecondOfMinute:
		return Seconds
	case MinuteOfHour:
		return Minutes
	case HourOfDay:
		return Hours
	case DayOfWeek, DayOfMonth, DayOfYear:
		return Days
	case WeekOfYear:
		return Weeks
	case MonthOfYear:
		return Months
	}
	return 0
}

// IsTimeOfDay reports whether the field only exists on values carrying a time
func (f Field) IsTimeOfDay() bool {
	return f == SecondOfMinute || f == MinuteOfHour || f == HourOfDay
}

func (f Field) valid() bool {
	return f >= SecondOfMinute && f <= MonthOfYear
}

// Unit is a recurrence frequency granularity
type Unit int

const (
	Seconds Unit = iota + 1
	Minutes
	Hours
	Days
	Weeks
	Months
	Years
)

var unitFrequencies = map[Unit]string{
	Seconds: "SECONDLY",
	Minutes: "MINUTELY",
	Hours:   "HOURLY",
	Days:    "DAILY",
	Weeks:   "WEEKLY",
	Months:  "MONTHLY",
	Years:   "YEARLY",
}

var unitNames = map[Unit]string{
	Seconds: "Seconds",
	Minutes: "Minutes",
	Hours:   "Hours",
	Days:    "Days",
	Weeks:   "Weeks",
	Months:  "Months",
	Years:   "Years",
}

// Valid reports whether u is one of the seven recurrence units
func (u Unit) Valid() bool {
	_, ok := unitNames[u]
	return ok
}

func (u Unit) String() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Frequency returns the FREQ keyword for the unit, e.g. "DAILY"
func (u Unit) Frequency() string {
	return unitFrequencies[u]
}

// ParseFrequency maps a FREQ keyword (case-insensitive) to its unit
func ParseFrequency(s string) (Unit, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for u, freq := range unitFrequencies {
		if freq == upper {
			return u, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFrequency, s)
}
