package byrule

import (
	"fmt"

	"github.com/cyp0633/caldora-recur/temporal"
)

// Mode is how a part treats the candidate stream for a given frequency
type Mode int

const (
	Unsupported Mode = iota
	Filter
	Expand
)

func (m Mode) String() string {
	switch m {
	case Filter:
		return "filter"
	case Expand:
		return "expand"
	}
	return "unsupported"
}

const (
	lim = Filter
	exp = Expand
	na  = Unsupported
)

// modes follows the BYxxx/FREQ table of RFC 5545 section 3.3.10, columns
// SECONDLY through YEARLY. BYDAY's MONTHLY and YEARLY entries are refined by
// DayPart according to the sibling parts.
var modes = map[Kind][7]Mode{
	Month:       {lim, lim, lim, lim, lim, lim, exp},
	WeekNumber:  {na, na, na, na, na, na, exp},
	YearDay:     {lim, lim, lim, na, na, na, exp},
	MonthDay:    {lim, lim, lim, lim, na, exp, exp},
	Day:         {lim, lim, lim, lim, exp, exp, exp},
	Hour:        {lim, lim, lim, exp, exp, exp, exp},
	Minute:      {lim, lim, exp, exp, exp, exp, exp},
	Second:      {lim, exp, exp, exp, exp, exp, exp},
	SetPosition: {lim, lim, lim, lim, lim, lim, lim},
}

// ModeOf returns the mode of kind k under frequency unit freq. Pairs the RFC
// marks N/A and units outside SECONDLY..YEARLY yield ErrUnsupportedFrequency.
func ModeOf(k Kind, freq temporal.Unit) (Mode, error) {
	row, ok := modes[k]
	if !ok || !freq.Valid() {
		return Unsupported, &Error{Kind: k, Value: freq.String(), Err: ErrUnsupportedFrequency}
	}
	m := row[freq-temporal.Seconds]
	if m == Unsupported {
		return Unsupported, &Error{Kind: k, Value: freq.Frequency(), Err: fmt.Errorf("%w: not defined by RFC 5545", ErrUnsupportedFrequency)}
	}
	return m, nil
}
