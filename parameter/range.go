// Package parameter holds iCalendar property parameter values.
package parameter

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRange = errors.New("unknown RANGE value")

// Range is the RANGE parameter of RECURRENCE-ID (RFC 5545 section 3.2.13):
// whether an override applies to one instance and those after it.
type Range int

const (
	ThisAndFuture Range = iota
	// ThisAndPrior is deprecated and must not be generated, but is still parsed
	ThisAndPrior
)

var rangeNames = map[Range]string{
	ThisAndFuture: "THISANDFUTURE",
	ThisAndPrior:  "THISANDPRIOR",
}

func (r Range) String() string {
	if name, ok := rangeNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Range(%d)", int(r))
}

// ParseRange parses a RANGE value case-insensitively. An empty value yields
// the default, ThisAndFuture.
func ParseRange(s string) (Range, error) {
	if s == "" {
		return ThisAndFuture, nil
	}
	upper := strings.ToUpper(s)
	for r, name := range rangeNames {
		if name == upper {
			return r, nil
		}
	}
	return ThisAndFuture, fmt.Errorf("%w: %q", ErrUnknownRange, s)
}
