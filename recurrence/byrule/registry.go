package byrule

import (
	"slices"
)

// Parse builds the part named name (e.g. "BYMINUTE") from its value list
func Parse(name, token string) (Part, error) {
	k, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	switch k {
	case Day:
		return ParseDayPart(token)
	case SetPosition:
		v, err := ParseValues(SetPosition, token)
		if err != nil {
			return nil, err
		}
		return &SetPosPart{values: v}, nil
	}
	v, err := ParseValues(k, token)
	if err != nil {
		return nil, err
	}
	return &IntPart{values: v}, nil
}

// Sort orders parts for folding over a candidate stream
func Sort(parts []Part) {
	slices.SortStableFunc(parts, func(a, b Part) int {
		return orderIndex(a.Kind()) - orderIndex(b.Kind())
	})
}

// Arrange returns the parts in the order a rule evaluates them under ctx:
// expansions first, then filters, BYSETPOS last, each group in Order. A
// filter only judges the candidates that exist once every expansion has run,
// so BYMONTH in a WEEKLY rule sees each day BYDAY produced rather than the
// week's seed.
func Arrange(parts []Part, ctx Context) []Part {
	group := func(p Part) int {
		switch p := p.(type) {
		case *SetPosPart:
			return 2
		case *IntPart:
			if m, err := p.mode(ctx); err == nil && m == Filter {
				return 1
			}
		case *DayPart:
			if m, _, err := p.plan(ctx); err == nil && m == Filter {
				return 1
			}
		}
		return 0
	}
	out := slices.Clone(parts)
	slices.SortStableFunc(out, func(a, b Part) int {
		if ga, gb := group(a), group(b); ga != gb {
			return ga - gb
		}
		return orderIndex(a.Kind()) - orderIndex(b.Kind())
	})
	return out
}

// KindsOf returns the set of kinds among parts
func KindsOf(parts []Part) KindSet {
	var s KindSet
	for _, p := range parts {
		s |= NewKindSet(p.Kind())
	}
	return s
}

// Apply folds parts over in, in the order given
func Apply(in Stream, parts []Part, ctx Context) (Stream, error) {
	out := in
	for _, p := range parts {
		var err error
		if out, err = p.Transform(out, ctx); err != nil {
			return nil, err
		}
	}
	return out, nil
}
