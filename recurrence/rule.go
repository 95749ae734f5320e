package recurrence

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cyp0633/caldora-recur/recurrence/byrule"
	"github.com/cyp0633/caldora-recur/temporal"
	"github.com/samber/mo"
)

var (
	ErrInvalidRule = errors.New("invalid recurrence rule")
)

// Rule is a parsed RRULE value
type Rule struct {
	Frequency temporal.Unit
	Interval  int            // 0 is treated as 1
	Count     int            // 0 means no count limit
	Until     temporal.Value // nil means no end
	WeekStart time.Weekday
	Parts     []byrule.Part // sorted in byrule.Order
}

// ParseRule parses an RRULE value such as "FREQ=MONTHLY;BYDAY=-1FR;COUNT=6".
// A leading "RRULE:" is accepted.
func ParseRule(s string) (*Rule, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 6 && strings.EqualFold(s[:6], "RRULE:") {
		s = s[6:]
	}
	if s == "" {
		return nil, fmt.Errorf("%w: empty rule", ErrInvalidRule)
	}

	r := &Rule{WeekStart: time.Monday}
	seen := make(map[string]bool)
	var partTokens [][2]string
	for _, pair := range strings.Split(s, ";") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not KEY=VALUE", ErrInvalidRule, pair)
		}
		key = strings.ToUpper(key)
		if seen[key] {
			return nil, fmt.Errorf("%w: %s given twice", ErrInvalidRule, key)
		}
		seen[key] = true

		var err error
		switch key {
		case "FREQ":
			r.Frequency, err = temporal.ParseFrequency(value)
		case "INTERVAL":
			r.Interval, err = positiveInt(value)
		case "COUNT":
			r.Count, err = positiveInt(value)
		case "UNTIL":
			r.Until, err = temporal.Parse(value, time.UTC)
		case "WKST":
			r.WeekStart, err = temporal.ParseWeekday(value)
		default:
			if !strings.HasPrefix(key, "BY") {
				return nil, fmt.Errorf("%w: unknown key %s", ErrInvalidRule, key)
			}
			partTokens = append(partTokens, [2]string{key, value})
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRule, key, err)
		}
	}

	for _, res := range ParseParts(partTokens) {
		part, err := res.Get()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRule, err)
		}
		r.Parts = append(r.Parts, part)
	}
	byrule.Sort(r.Parts)

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// ParseParts parses each NAME=VALUE pair independently, keeping the input order
func ParseParts(tokens [][2]string) []mo.Result[byrule.Part] {
	results := make([]mo.Result[byrule.Part], len(tokens))
	for i, t := range tokens {
		part, err := byrule.Parse(t[0], t[1])
		results[i] = mo.TupleToResult(part, err)
	}
	return results
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

// Validate checks the constraints RFC 5545 places across rule parts
func (r *Rule) Validate() error {
	if !r.Frequency.Valid() {
		return fmt.Errorf("%w: FREQ is required", ErrInvalidRule)
	}
	if r.Count > 0 && r.Until != nil {
		return fmt.Errorf("%w: COUNT and UNTIL are mutually exclusive", ErrInvalidRule)
	}
	if r.Interval < 0 || r.Count < 0 {
		return fmt.Errorf("%w: negative INTERVAL or COUNT", ErrInvalidRule)
	}
	kinds := byrule.KindsOf(r.Parts)
	for i, p := range r.Parts {
		for _, q := range r.Parts[:i] {
			if p.Kind() == q.Kind() {
				return fmt.Errorf("%w: %s given twice", ErrInvalidRule, p.Kind())
			}
		}
		day, ok := p.(*byrule.DayPart)
		if !ok || !day.HasOrdinals() {
			continue
		}
		if r.Frequency != temporal.Months && r.Frequency != temporal.Years {
			return fmt.Errorf("%w: BYDAY ordinals require MONTHLY or YEARLY", ErrInvalidRule)
		}
		if r.Frequency == temporal.Years && kinds.Has(byrule.WeekNumber) {
			return fmt.Errorf("%w: BYDAY ordinals cannot be combined with BYWEEKNO", ErrInvalidRule)
		}
	}
	return nil
}

// String serializes the rule in a canonical key order
func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString("FREQ=")
	b.WriteString(r.Frequency.Frequency())
	if r.Until != nil {
		b.WriteString(";UNTIL=")
		b.WriteString(r.Until.String())
	}
	if r.Count > 0 {
		fmt.Fprintf(&b, ";COUNT=%d", r.Count)
	}
	if r.Interval > 1 {
		fmt.Fprintf(&b, ";INTERVAL=%d", r.Interval)
	}
	for _, p := range r.Parts {
		fmt.Fprintf(&b, ";%s=%s", p.Kind(), p)
	}
	if r.WeekStart != time.Monday {
		b.WriteString(";WKST=")
		b.WriteString(temporal.WeekdayCode(r.WeekStart))
	}
	return b.String()
}

func (r *Rule) interval() int {
	return max(r.Interval, 1)
}
