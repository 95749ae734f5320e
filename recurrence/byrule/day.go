package byrule

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cyp0633/caldora-recur/temporal"
)

// WeekdayNum is a BYDAY entry: a weekday with an optional ordinal. N == 0
// means every such weekday; N == -1 is the last one in the period.
type WeekdayNum struct {
	N       int
	Weekday time.Weekday
}

func (w WeekdayNum) String() string {
	if w.N == 0 {
		return temporal.WeekdayCode(w.Weekday)
	}
	return strconv.Itoa(w.N) + temporal.WeekdayCode(w.Weekday)
}

// ParseWeekdayNum parses entries such as "MO", "1TU", "-1FR" or "+2WE"
func ParseWeekdayNum(s string) (WeekdayNum, error) {
	if len(s) < 2 {
		return WeekdayNum{}, &Error{Kind: Day, Value: s, Err: ErrParse}
	}
	code := s[len(s)-2:]
	wd, err := temporal.ParseWeekday(code)
	if err != nil {
		return WeekdayNum{}, &Error{Kind: Day, Value: s, Err: fmt.Errorf("%w: %w", ErrParse, err)}
	}
	w := WeekdayNum{Weekday: wd}
	if prefix := s[:len(s)-2]; prefix != "" {
		if w.N, err = strconv.Atoi(prefix); err != nil {
			return WeekdayNum{}, &Error{Kind: Day, Value: s, Err: fmt.Errorf("%w: bad ordinal", ErrParse)}
		}
		if !Day.Legal(w.N) {
			return WeekdayNum{}, &Error{Kind: Day, Value: s, Err: fmt.Errorf("%w: %w", ErrParse, ErrInvalidRuleValue)}
		}
	}
	return w, nil
}

// DayPart is BYDAY
type DayPart struct {
	days []WeekdayNum
}

// NewDayPart validates the entries; repeated entries keep their first position
func NewDayPart(days ...WeekdayNum) (*DayPart, error) {
	if len(days) == 0 {
		return nil, &Error{Kind: Day, Err: fmt.Errorf("%w: no values", ErrInvalidRuleValue)}
	}
	p := &DayPart{days: make([]WeekdayNum, 0, len(days))}
	for _, d := range days {
		if d.Weekday < time.Sunday || d.Weekday > time.Saturday || (d.N != 0 && !Day.Legal(d.N)) {
			return nil, &Error{Kind: Day, Value: d.String(), Err: ErrInvalidRuleValue}
		}
		if !slices.Contains(p.days, d) {
			p.days = append(p.days, d)
		}
	}
	return p, nil
}

// ParseDayPart parses a comma-separated BYDAY list
func ParseDayPart(token string) (*DayPart, error) {
	if token == "" {
		return nil, &Error{Kind: Day, Err: fmt.Errorf("%w: empty value list", ErrParse)}
	}
	var days []WeekdayNum
	for _, s := range strings.Split(token, ",") {
		d, err := ParseWeekdayNum(s)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return NewDayPart(days...)
}

func (p *DayPart) Kind() Kind { return Day }

// Days returns a copy of the entries in stored order
func (p *DayPart) Days() []WeekdayNum { return slices.Clone(p.days) }

// HasOrdinals reports whether any entry carries an ordinal
func (p *DayPart) HasOrdinals() bool {
	return slices.ContainsFunc(p.days, func(d WeekdayNum) bool { return d.N != 0 })
}

func (p *DayPart) String() string {
	parts := make([]string, len(p.days))
	for i, d := range p.days {
		parts[i] = d.String()
	}
	return strings.Join(parts, ",")
}

type dayScope int

const (
	scopeNone dayScope = iota
	scopeWeek
	scopeMonth
	scopeYear
)

// plan decides mode and period for BYDAY following notes 1 and 2 of the
// RFC 5545 BYxxx table
func (p *DayPart) plan(ctx Context) (Mode, dayScope, error) {
	if _, err := ModeOf(Day, ctx.Frequency); err != nil {
		return Unsupported, scopeNone, err
	}
	switch ctx.Frequency {
	case temporal.Weeks:
		return Expand, scopeWeek, nil
	case temporal.Months:
		if ctx.Present.Has(MonthDay) {
			return Filter, scopeMonth, nil
		}
		return Expand, scopeMonth, nil
	case temporal.Years:
		scope := scopeYear
		if ctx.Present.Has(Month) {
			scope = scopeMonth
		}
		switch {
		case ctx.Present.Has(YearDay) || ctx.Present.Has(MonthDay):
			return Filter, scope, nil
		case ctx.Present.Has(WeekNumber):
			return Expand, scopeWeek, nil
		}
		return Expand, scope, nil
	}
	// Ordinals only make sense in MONTHLY and YEARLY rules and are ignored here.
	return Filter, scopeNone, nil
}

// Transform filters or expands by weekday
func (p *DayPart) Transform(in Stream, ctx Context) (Stream, error) {
	if !ctx.fieldSupported(temporal.DayOfWeek) {
		return in, nil
	}
	mode, scope, err := p.plan(ctx)
	if err != nil {
		return nil, err
	}
	if mode == Filter {
		return func(yield func(temporal.Value) bool) {
			for v := range in {
				if p.matches(v, scope) && !yield(v) {
					return
				}
			}
		}, nil
	}
	return func(yield func(temporal.Value) bool) {
		for v := range in {
			for _, d := range p.days {
				for _, out := range expandWeekday(v, d, scope) {
					if !yield(out) {
						return
					}
				}
			}
		}
	}, nil
}

func (p *DayPart) matches(v temporal.Value, scope dayScope) bool {
	wd := temporal.FromISOWeekday(v.Get(temporal.DayOfWeek))
	for _, d := range p.days {
		if d.Weekday != wd {
			continue
		}
		if d.N == 0 || scope == scopeNone || scope == scopeWeek {
			return true
		}
		field := temporal.DayOfMonth
		if scope == scopeYear {
			field = temporal.DayOfYear
		}
		_, last := v.Range(field)
		day := v.Get(field)
		if d.N == (day-1)/7+1 || d.N == -((last-day)/7+1) {
			return true
		}
	}
	return false
}

// expandWeekday returns the days matching d in v's week, month or year
func expandWeekday(v temporal.Value, d WeekdayNum, scope dayScope) []temporal.Value {
	if scope == scopeWeek {
		return []temporal.Value{v.With(temporal.DayOfWeek, temporal.ISOWeekday(d.Weekday))}
	}
	field := temporal.DayOfMonth
	if scope == scopeYear {
		field = temporal.DayOfYear
	}
	_, last := v.Range(field)
	first := v.With(field, 1)
	offset := (int(d.Weekday) - int(temporal.FromISOWeekday(first.Get(temporal.DayOfWeek))) + 7) % 7
	var days []int
	for day := 1 + offset; day <= last; day += 7 {
		days = append(days, day)
	}
	if d.N != 0 {
		i := d.N - 1
		if d.N < 0 {
			i = len(days) + d.N
		}
		if i < 0 || i >= len(days) {
			return nil
		}
		days = days[i : i+1]
	}
	out := make([]temporal.Value, len(days))
	for i, day := range days {
		out[i] = v.With(field, day)
	}
	return out
}
