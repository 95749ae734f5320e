package temporal

import (
	"fmt"
	"time"
)

// Value is an immutable point in time whose calendar fields can be read and
// replaced. Replacing a field returns a new Value.
type Value interface {
	// Supports reports whether the field exists on this value
	Supports(f Field) bool
	// Get returns the field, or 0 when the field is not supported
	Get(f Field) int
	// With returns a copy with the field replaced. A replacement that names a
	// date that does not exist (February 30) yields a value that is not Valid.
	With(f Field, n int) Value
	// Range returns the legal bounds of the field within the value's period,
	// e.g. 1..29 for DayOfMonth in February of a leap year
	Range(f Field) (min, max int)
	// Plus moves the value by n units
	Plus(u Unit, n int) Value
	Valid() bool
	Compare(other Value) int
	Time() time.Time
	WeekStart() time.Weekday
	String() string
}

// civil holds raw calendar fields. Month and day are kept as given so that a
// field replacement landing on a missing date can be detected instead of
// silently rolling into the next month.
type civil struct {
	year, month, day     int
	hour, minute, second int
	loc                  *time.Location
	wkst                 time.Weekday
	bad                  bool
}

func civilOf(t time.Time) civil {
	return civil{
		year:   t.Year(),
		month:  int(t.Month()),
		day:    t.Day(),
		hour:   t.Hour(),
		minute: t.Minute(),
		second: t.Second(),
		loc:    t.Location(),
		wkst:   time.Monday,
	}
}

func (c civil) location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

func (c civil) time() time.Time {
	return time.Date(c.year, time.Month(c.month), c.day, c.hour, c.minute, c.second, 0, c.location())
}

func (c civil) withTime(t time.Time) civil {
	n := civilOf(t)
	n.wkst = c.wkst
	n.bad = c.bad
	return n
}

func (c civil) valid() bool {
	if c.bad || c.month < 1 || c.month > 12 {
		return false
	}
	if c.day < 1 || c.day > daysInMonth(c.year, c.month) {
		return false
	}
	return c.hour >= 0 && c.hour <= 23 &&
		c.minute >= 0 && c.minute <= 59 &&
		c.second >= 0 && c.second <= 59
}

// weekOffset is the number of days between the week start and the value's weekday
func (c civil) weekOffset() int {
	return (int(c.time().Weekday()) - int(c.wkst) + 7) % 7
}

func (c civil) get(f Field) int {
	switch f {
	case SecondOfMinute:
		return c.second
	case MinuteOfHour:
		return c.minute
	case HourOfDay:
		return c.hour
	case DayOfWeek:
		return ISOWeekday(c.time().Weekday())
	case DayOfMonth:
		return c.day
	case DayOfYear:
		return c.time().YearDay()
	case WeekOfYear:
		t := c.time()
		return weekOfYear(t.Year(), t.YearDay()-1, c.wkst)
	case MonthOfYear:
		return c.month
	}
	return 0
}

func (c civil) with(f Field, n int) civil {
	switch f {
	case SecondOfMinute:
		c.second = n
	case MinuteOfHour:
		c.minute = n
	case HourOfDay:
		c.hour = n
	case DayOfMonth:
		c.day = n
	case MonthOfYear:
		c.month = n
	case DayOfWeek:
		if n < 1 || n > 7 {
			c.bad = true
			return c
		}
		target := (int(FromISOWeekday(n)) - int(c.wkst) + 7) % 7
		return c.plusDays(target - c.weekOffset())
	case DayOfYear:
		if n < 1 || n > yearLength(c.year) {
			c.bad = true
			return c
		}
		return c.withDate(time.Date(c.year, time.January, n, 0, 0, 0, 0, time.UTC))
	case WeekOfYear:
		if n < 1 || n > weeksInYear(c.year, c.wkst) {
			c.bad = true
			return c
		}
		yday := weekOneStart(c.year, c.wkst) + (n-1)*7 + c.weekOffset()
		return c.withDate(time.Date(c.year, time.January, 1+yday, 0, 0, 0, 0, time.UTC))
	default:
		c.bad = true
	}
	return c
}

func (c civil) withDate(d time.Time) civil {
	c.year, c.month, c.day = d.Year(), int(d.Month()), d.Day()
	return c
}

func (c civil) plusDays(n int) civil {
	return c.withDate(time.Date(c.year, time.Month(c.month), c.day+n, 0, 0, 0, 0, time.UTC))
}

func (c civil) fieldRange(f Field) (int, int) {
	switch f {
	case SecondOfMinute, MinuteOfHour:
		return 0, 59
	case HourOfDay:
		return 0, 23
	case DayOfWeek:
		return 1, 7
	case DayOfMonth:
		t := c.time()
		if c.month >= 1 && c.month <= 12 {
			return 1, daysInMonth(c.year, c.month)
		}
		return 1, daysInMonth(t.Year(), int(t.Month()))
	case DayOfYear:
		return 1, yearLength(c.year)
	case WeekOfYear:
		return 1, weeksInYear(c.year, c.wkst)
	case MonthOfYear:
		return 1, 12
	}
	return 0, 0
}

func (c civil) plus(u Unit, n int) civil {
	switch u {
	case Seconds:
		return c.withTime(c.time().Add(time.Duration(n) * time.Second))
	case Minutes:
		return c.withTime(c.time().Add(time.Duration(n) * time.Minute))
	case Hours:
		return c.withTime(c.time().Add(time.Duration(n) * time.Hour))
	case Days:
		return c.plusDays(n)
	case Weeks:
		return c.plusDays(7 * n)
	case Months:
		total := c.year*12 + (c.month - 1) + n
		c.year = floorDiv(total, 12)
		c.month = total - c.year*12 + 1
	case Years:
		c.year += n
	}
	return c
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// DateTime is a date with a time of day. It supports every Field.
type DateTime struct {
	c civil
}

// FromTime converts t to a DateTime using Monday as week start
func FromTime(t time.Time) DateTime {
	return DateTime{c: civilOf(t.Truncate(time.Second))}
}

// WithWeekStart returns a copy whose week-based fields begin on wkst
func (v DateTime) WithWeekStart(wkst time.Weekday) DateTime {
	v.c.wkst = wkst
	return v
}

func (v DateTime) Supports(f Field) bool { return f.valid() }
func (v DateTime) Get(f Field) int       { return v.c.get(f) }
func (v DateTime) With(f Field, n int) Value {
	return DateTime{c: v.c.with(f, n)}
}
func (v DateTime) Range(f Field) (int, int) { return v.c.fieldRange(f) }
func (v DateTime) Plus(u Unit, n int) Value { return DateTime{c: v.c.plus(u, n)} }
func (v DateTime) Valid() bool              { return v.c.valid() }
func (v DateTime) Time() time.Time          { return v.c.time() }
func (v DateTime) WeekStart() time.Weekday  { return v.c.wkst }
func (v DateTime) Compare(other Value) int  { return v.Time().Compare(other.Time()) }

// String formats the value as an iCalendar DATE-TIME, UTC values with a Z suffix
func (v DateTime) String() string {
	s := fmt.Sprintf("%04d%02d%02dT%02d%02d%02d", v.c.year, v.c.month, v.c.day, v.c.hour, v.c.minute, v.c.second)
	if v.c.location() == time.UTC {
		s += "Z"
	}
	return s
}

// Date is a calendar date without a time of day (VALUE=DATE). Time-of-day
// fields are not supported.
type Date struct {
	c civil
}

// NewDate returns the date in UTC with Monday as week start
func NewDate(year int, month time.Month, day int) Date {
	return Date{c: civil{year: year, month: int(month), day: day, loc: time.UTC, wkst: time.Monday}}
}

// DateOf returns the calendar date of t
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// WithWeekStart returns a copy whose week-based fields begin on wkst
func (v Date) WithWeekStart(wkst time.Weekday) Date {
	v.c.wkst = wkst
	return v
}

func (v Date) Supports(f Field) bool { return f.valid() && !f.IsTimeOfDay() }

func (v Date) Get(f Field) int {
	if !v.Supports(f) {
		return 0
	}
	return v.c.get(f)
}

func (v Date) With(f Field, n int) Value {
	if !v.Supports(f) {
		c := v.c
		c.bad = true
		return Date{c: c}
	}
	return Date{c: v.c.with(f, n)}
}

func (v Date) Range(f Field) (int, int) {
	if !v.Supports(f) {
		return 0, 0
	}
	return v.c.fieldRange(f)
}

// Plus moves the date; sub-day units are accumulated and then truncated to the day
func (v Date) Plus(u Unit, n int) Value {
	c := v.c.plus(u, n)
	c.hour, c.minute, c.second = 0, 0, 0
	return Date{c: c}
}

func (v Date) Valid() bool             { return v.c.valid() }
func (v Date) Time() time.Time         { return v.c.time() }
func (v Date) WeekStart() time.Weekday { return v.c.wkst }
func (v Date) Compare(other Value) int { return v.Time().Compare(other.Time()) }

// String formats the value as an iCalendar DATE
func (v Date) String() string {
	return fmt.Sprintf("%04d%02d%02d", v.c.year, v.c.month, v.c.day)
}

// ParseDateTime parses an iCalendar DATE-TIME. Values with a Z suffix are UTC;
// others are interpreted in loc, or UTC when loc is nil.
func ParseDateTime(s string, loc *time.Location) (DateTime, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse("20060102T150405Z", s); err == nil {
		return FromTime(t), nil
	}
	t, err := time.ParseInLocation("20060102T150405", s, loc)
	if err != nil {
		return DateTime{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return FromTime(t), nil
}

// ParseDate parses an iCalendar DATE such as "20240131"
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("20060102", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return DateOf(t), nil
}

// Parse accepts either a DATE or a DATE-TIME
func Parse(s string, loc *time.Location) (Value, error) {
	if len(s) == len("20060102") {
		return ParseDate(s)
	}
	return ParseDateTime(s, loc)
}
