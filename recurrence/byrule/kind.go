// Package byrule implements the BYxxx parts of an RFC 5545 recurrence rule.
//
// Each part holds an ordered list of values and transforms a lazy stream of
// candidate instants. Depending on the recurrence frequency a part either
// limits the stream to the candidates matching its values (Filter) or
// multiplies every candidate into one instant per value (Expand):
//
//	part, _ := byrule.Parse("BYMINUTE", "0,30")
//	out, err := part.Transform(byrule.Of(start), byrule.Context{Frequency: temporal.Hours, Start: start})
//
// Negative indexes ("last day of the month") are passed through untouched
// unless the caller supplies an IndexResolver; only the rule driver knows the
// period they are relative to.
package byrule

import (
	"fmt"
	"strings"

	"github.com/cyp0633/caldora-recur/temporal"
)

// Kind identifies a BYxxx rule part
type Kind int

const (
	Second Kind = iota + 1
	Minute
	Hour
	Day
	MonthDay
	YearDay
	WeekNumber
	Month
	SetPosition
)

type kindInfo struct {
	name  string
	field temporal.Field
	legal func(int) bool
}

func between(lo, hi int) func(int) bool {
	return func(n int) bool { return n >= lo && n <= hi }
}

func signedUpTo(limit int) func(int) bool {
	return func(n int) bool { return n != 0 && n >= -limit && n <= limit }
}

var kinds = map[Kind]kindInfo{
	Second:      {name: "BYSECOND", field: temporal.SecondOfMinute, legal: between(0, 60)},
	Minute:      {name: "BYMINUTE", field: temporal.MinuteOfHour, legal: between(0, 59)},
	Hour:        {name: "BYHOUR", field: temporal.HourOfDay, legal: between(0, 23)},
	Day:         {name: "BYDAY", field: temporal.DayOfWeek, legal: signedUpTo(53)}, // ordinal part of a weekday entry
	MonthDay:    {name: "BYMONTHDAY", field: temporal.DayOfMonth, legal: signedUpTo(31)},
	YearDay:     {name: "BYYEARDAY", field: temporal.DayOfYear, legal: signedUpTo(366)},
	WeekNumber:  {name: "BYWEEKNO", field: temporal.WeekOfYear, legal: signedUpTo(53)},
	Month:       {name: "BYMONTH", field: temporal.MonthOfYear, legal: between(1, 12)},
	SetPosition: {name: "BYSETPOS", legal: func(n int) bool { return n != 0 }},
}

// Order is the sequence in which a rule driver folds parts over a candidate
// stream. Expansions of coarse fields run before finer ones, BYSETPOS last.
var Order = []Kind{Month, WeekNumber, YearDay, MonthDay, Day, Hour, Minute, Second, SetPosition}

// String returns the rule part name, e.g. "BYMINUTE"
func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Field returns the calendar field the part reads and replaces. SetPosition
// has no field and returns 0.
func (k Kind) Field() temporal.Field {
	return kinds[k].field
}

// Unit returns the intrinsic unit of the part's field
func (k Kind) Unit() temporal.Unit {
	return k.Field().Unit()
}

// Legal reports whether n is an allowed value for the kind
func (k Kind) Legal(n int) bool {
	info, ok := kinds[k]
	return ok && info.legal(n)
}

// Lookup maps a rule part name (case-insensitive) to its kind
func Lookup(name string) (Kind, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for k, info := range kinds {
		if info.name == upper {
			return k, nil
		}
	}
	return 0, &Error{Value: name, Err: ErrUnknownRulePart}
}

func orderIndex(k Kind) int {
	for i, o := range Order {
		if o == k {
			return i
		}
	}
	return len(Order)
}

// KindSet is a set of rule part kinds
type KindSet uint32

// NewKindSet returns a set holding kinds
func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << uint(k)
	}
	return s
}

// Has reports whether k is in the set
func (s KindSet) Has(k Kind) bool {
	return s&(1<<uint(k)) != 0
}
