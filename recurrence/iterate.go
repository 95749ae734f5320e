package recurrence

import (
	"iter"
	"time"

	"github.com/cyp0633/caldora-recur/recurrence/byrule"
	"github.com/cyp0633/caldora-recur/temporal"
)

// maxEmptyPeriods ends iteration of a rule that keeps producing periods
// without any occurrence, e.g. BYMONTH=2;BYMONTHDAY=30.
const maxEmptyPeriods = 1000

// ResolveIndex turns a negative index into a field value counted from the end
// of v's period: -1 for DayOfMonth is the last day of v's month. Non-negative
// indexes and indexes beyond the period are returned unchanged.
func ResolveIndex(v temporal.Value, f temporal.Field, n int) int {
	if n >= 0 {
		return n
	}
	lo, hi := v.Range(f)
	if r := hi + 1 + n; r >= lo {
		return r
	}
	return n
}

func withWeekStart(v temporal.Value, wkst time.Weekday) temporal.Value {
	switch t := v.(type) {
	case temporal.DateTime:
		return t.WithWeekStart(wkst)
	case temporal.Date:
		return t.WithWeekStart(wkst)
	}
	return v
}

func (r *Rule) context(start temporal.Value) byrule.Context {
	return byrule.Context{
		Frequency: r.Frequency,
		Start:     start,
		Resolve:   ResolveIndex,
		Present:   byrule.KindsOf(r.Parts),
	}
}

// All returns the occurrences of the rule for a series starting at start, in
// chronological order. Each period seeds a one-element stream that the rule
// parts transform, expansions before filters; the period's candidates are
// then sorted, deduplicated and trimmed to start, UNTIL and COUNT. Errors in
// the rule are reported here, not during iteration.
func (r *Rule) All(start temporal.Value) (iter.Seq[temporal.Value], error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	start = withWeekStart(start, r.WeekStart)
	ctx := r.context(start)
	parts := byrule.Arrange(r.Parts, ctx)
	if _, err := byrule.Apply(byrule.Of(start), parts, ctx); err != nil {
		return nil, err
	}

	step := r.interval()
	return func(yield func(temporal.Value) bool) {
		count, empty := 0, 0
		var last temporal.Value
		for k := 0; ; k++ {
			seed := start.Plus(r.Frequency, k*step)
			out, err := byrule.Apply(byrule.Of(seed), parts, ctx)
			if err != nil {
				return
			}
			found := false
			for _, v := range byrule.SortUnique(out) {
				if v.Compare(start) < 0 {
					continue
				}
				if r.Until != nil && v.Compare(r.Until) > 0 {
					return
				}
				found = true
				// A DATE start under a sub-daily FREQ lands on the same day
				// in several periods
				if last != nil && v.Compare(last) <= 0 {
					continue
				}
				last = v
				if !yield(v) {
					return
				}
				count++
				if r.Count > 0 && count >= r.Count {
					return
				}
			}
			if found {
				empty = 0
			} else if empty++; empty >= maxEmptyPeriods {
				return
			}
		}
	}, nil
}

// Take returns at most n occurrences
func (r *Rule) Take(start temporal.Value, n int) ([]temporal.Value, error) {
	seq, err := r.All(start)
	if err != nil {
		return nil, err
	}
	var out []temporal.Value
	if n <= 0 {
		return out, nil
	}
	for v := range seq {
		out = append(out, v)
		if len(out) >= n {
			break
		}
	}
	return out, nil
}

// Between returns the occurrences after after and before before. With inc
// set, occurrences equal to either bound are included.
func (r *Rule) Between(start temporal.Value, after, before time.Time, inc bool) ([]temporal.Value, error) {
	seq, err := r.All(start)
	if err != nil {
		return nil, err
	}
	var out []temporal.Value
	for v := range seq {
		t := v.Time()
		if t.After(before) || (!inc && t.Equal(before)) {
			break
		}
		if t.After(after) || (inc && t.Equal(after)) {
			out = append(out, v)
		}
	}
	return out, nil
}
