package byrule

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Values is the ordered, duplicate-free value list of an integer rule part.
// Values keep the order they were given in; serialization does not sort.
type Values struct {
	kind   Kind
	values []int
}

// NewValues validates values against the kind's legal range. Repeated values
// keep their first position.
func NewValues(kind Kind, values ...int) (Values, error) {
	if len(values) == 0 {
		return Values{}, &Error{Kind: kind, Err: fmt.Errorf("%w: no values", ErrInvalidRuleValue)}
	}
	v := Values{kind: kind, values: make([]int, 0, len(values))}
	for _, n := range values {
		if !kind.Legal(n) {
			return Values{}, &Error{Kind: kind, Value: strconv.Itoa(n), Err: ErrInvalidRuleValue}
		}
		if !slices.Contains(v.values, n) {
			v.values = append(v.values, n)
		}
	}
	return v, nil
}

// ParseValues parses a comma-separated list such as "5,10,-1"
func ParseValues(kind Kind, token string) (Values, error) {
	if token == "" {
		return Values{}, &Error{Kind: kind, Err: fmt.Errorf("%w: empty value list", ErrParse)}
	}
	fields := strings.Split(token, ",")
	ints := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Values{}, &Error{Kind: kind, Value: f, Err: fmt.Errorf("%w: not an integer", ErrParse)}
		}
		if !kind.Legal(n) {
			return Values{}, &Error{Kind: kind, Value: f, Err: fmt.Errorf("%w: %w", ErrParse, ErrInvalidRuleValue)}
		}
		ints = append(ints, n)
	}
	return NewValues(kind, ints...)
}

// Kind returns the rule part kind the values belong to
func (v Values) Kind() Kind {
	return v.kind
}

// Ints returns a copy of the values in stored order
func (v Values) Ints() []int {
	return slices.Clone(v.values)
}

// Len returns the number of values
func (v Values) Len() int {
	return len(v.values)
}

// Contains reports whether n is one of the values
func (v Values) Contains(n int) bool {
	return slices.Contains(v.values, n)
}

// String joins the values with commas in stored order
func (v Values) String() string {
	parts := make([]string, len(v.values))
	for i, n := range v.values {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// Equal reports whether both lists have the same kind and the same values in
// the same order
func (v Values) Equal(other Values) bool {
	return v.kind == other.kind && slices.Equal(v.values, other.values)
}

// Clone returns an independent copy
func (v Values) Clone() Values {
	return Values{kind: v.kind, values: slices.Clone(v.values)}
}
