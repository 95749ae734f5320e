package byrule

import (
	"slices"

	"github.com/cyp0633/caldora-recur/temporal"
)

// Part is one BYxxx clause of a recurrence rule
type Part interface {
	Kind() Kind
	// String returns the value list, e.g. "5,10,15" or "MO,-1FR"
	String() string
	// Transform applies the part to a candidate stream. Errors are reported
	// before the returned stream is iterated.
	Transform(in Stream, ctx Context) (Stream, error)
}

// IntPart is a rule part whose values are plain integers: BYSECOND, BYMINUTE,
// BYHOUR, BYMONTHDAY, BYYEARDAY, BYWEEKNO and BYMONTH.
type IntPart struct {
	values Values
}

// NewIntPart builds an integer part of kind k
func NewIntPart(k Kind, values ...int) (*IntPart, error) {
	if k == Day || k == SetPosition || k.Field() == 0 {
		return nil, &Error{Kind: k, Err: ErrUnknownRulePart}
	}
	v, err := NewValues(k, values...)
	if err != nil {
		return nil, err
	}
	return &IntPart{values: v}, nil
}

func (p *IntPart) Kind() Kind { return p.values.kind }

// Values returns a copy of the part's value list
func (p *IntPart) Values() Values { return p.values.Clone() }

func (p *IntPart) String() string { return p.values.String() }

// Equal reports whether both parts hold the same kind and values
func (p *IntPart) Equal(o *IntPart) bool { return p.values.Equal(o.values) }

// Transform filters or expands the stream depending on ctx.Frequency. A start
// value without the part's field (a DATE start for BYMINUTE) leaves the stream
// untouched whatever the frequency.
func (p *IntPart) Transform(in Stream, ctx Context) (Stream, error) {
	field := p.values.kind.Field()
	if !ctx.fieldSupported(field) {
		return in, nil
	}
	mode, err := p.mode(ctx)
	if err != nil {
		return nil, err
	}
	if mode == Expand {
		return p.expand(in, field, ctx), nil
	}
	return p.filter(in, field, ctx), nil
}

// mode refines the table entry for YEARLY rules: BYMONTH and BYMONTHDAY only
// limit the days already chosen by BYYEARDAY or BYWEEKNO.
func (p *IntPart) mode(ctx Context) (Mode, error) {
	m, err := ModeOf(p.values.kind, ctx.Frequency)
	if err != nil || m != Expand || ctx.Frequency != temporal.Years {
		return m, err
	}
	switch p.values.kind {
	case Month, MonthDay:
		if ctx.Present.Has(YearDay) || ctx.Present.Has(WeekNumber) {
			return Filter, nil
		}
	}
	return m, nil
}

// spreadsOverMonths reports whether BYMONTHDAY must be applied to every month
// of the year because no BYMONTH picks the months
func (p *IntPart) spreadsOverMonths(ctx Context) bool {
	return p.values.kind == MonthDay && ctx.Frequency == temporal.Years && !ctx.Present.Has(Month)
}

func (p *IntPart) filter(in Stream, field temporal.Field, ctx Context) Stream {
	return func(yield func(temporal.Value) bool) {
		for v := range in {
			if p.matches(v, field, ctx) && !yield(v) {
				return
			}
		}
	}
}

// matches reports whether v's field equals one of the values. Only positive
// values take part; zero and unresolved negative indexes never match.
func (p *IntPart) matches(v temporal.Value, field temporal.Field, ctx Context) bool {
	actual := v.Get(field)
	for _, n := range p.values.values {
		if n = ctx.resolve(v, field, n); n > 0 && n == actual {
			return true
		}
	}
	return false
}

func (p *IntPart) expand(in Stream, field temporal.Field, ctx Context) Stream {
	months := p.spreadsOverMonths(ctx)
	return func(yield func(temporal.Value) bool) {
		for v := range in {
			periods := []temporal.Value{v}
			if months {
				periods = make([]temporal.Value, 12)
				for m := range periods {
					periods[m] = v.With(temporal.MonthOfYear, m+1)
				}
			}
			for _, period := range periods {
				for _, n := range p.values.values {
					if !yield(period.With(field, ctx.resolve(period, field, n))) {
						return
					}
				}
			}
		}
	}
}

// SetPosPart is BYSETPOS. It works on the candidate set of a single
// recurrence period, so its input stream must be finite.
type SetPosPart struct {
	values Values
}

// NewSetPosPart builds a BYSETPOS part; positions are 1-based and nonzero
func NewSetPosPart(positions ...int) (*SetPosPart, error) {
	v, err := NewValues(SetPosition, positions...)
	if err != nil {
		return nil, err
	}
	return &SetPosPart{values: v}, nil
}

func (p *SetPosPart) Kind() Kind { return SetPosition }

// Values returns a copy of the positions
func (p *SetPosPart) Values() Values { return p.values.Clone() }

func (p *SetPosPart) String() string { return p.values.String() }

// Transform keeps the candidates at the given 1-based positions of the sorted
// valid candidate set; negative positions count from the end.
func (p *SetPosPart) Transform(in Stream, ctx Context) (Stream, error) {
	if _, err := ModeOf(SetPosition, ctx.Frequency); err != nil {
		return nil, err
	}
	return func(yield func(temporal.Value) bool) {
		set := SortUnique(in)
		var picked []int
		for _, pos := range p.values.values {
			i := pos - 1
			if pos < 0 {
				i = len(set) + pos
			}
			if i >= 0 && i < len(set) && !slices.Contains(picked, i) {
				picked = append(picked, i)
			}
		}
		slices.Sort(picked)
		for _, i := range picked {
			if !yield(set[i]) {
				return
			}
		}
	}, nil
}

// SortUnique drains a finite stream, drops invalid candidates and returns the
// rest in chronological order without duplicates
func SortUnique(in Stream) []temporal.Value {
	var set []temporal.Value
	for v := range in {
		if v.Valid() {
			set = append(set, v)
		}
	}
	slices.SortStableFunc(set, func(a, b temporal.Value) int { return a.Compare(b) })
	return slices.CompactFunc(set, func(a, b temporal.Value) bool { return a.Compare(b) == 0 })
}
