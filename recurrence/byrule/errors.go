package byrule

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is returned for rule part text that cannot be parsed
	ErrParse = errors.New("malformed rule part")
	// ErrInvalidRuleValue is returned for values outside a kind's legal range
	ErrInvalidRuleValue = errors.New("invalid rule part value")
	// ErrUnsupportedFrequency is returned when a part has no defined behavior
	// for the recurrence frequency
	ErrUnsupportedFrequency = errors.New("rule part not supported for frequency")
	// ErrUnknownRulePart is returned for an unrecognized rule part name
	ErrUnknownRulePart = errors.New("unknown rule part")
)

// Error reports a failure tied to one rule part
type Error struct {
	Kind  Kind
	Value string
	Err   error
}

func (e *Error) Error() string {
	if e.Kind == 0 {
		return fmt.Sprintf("%q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Value, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
