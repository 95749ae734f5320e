package byrule

import (
	"iter"
	"slices"

	"github.com/cyp0633/caldora-recur/temporal"
)

// Stream is a lazy sequence of candidate instants. Streams are consumed by
// ranging over them; a new stream must be built to iterate again.
type Stream = iter.Seq[temporal.Value]

// Of returns a stream over the given values
func Of(values ...temporal.Value) Stream {
	return slices.Values(values)
}

// Collect drains a finite stream into a slice
func Collect(s Stream) []temporal.Value {
	return slices.Collect(s)
}

// IndexResolver converts a signed index n of field f into a positive field
// value within the period of v, e.g. -1 for DayOfMonth in February 2023 to 28.
type IndexResolver func(v temporal.Value, f temporal.Field, n int) int

// Context is what a part needs to know about the rule it is evaluated in
type Context struct {
	// Frequency is the rule's FREQ unit and selects Filter or Expand
	Frequency temporal.Unit
	// Start is the recurrence start. It is consulted only to decide whether the
	// part's field exists at all; expanded candidates are never trimmed to it.
	Start temporal.Value
	// Resolve turns negative indexes into field values. Nil leaves them as-is.
	Resolve IndexResolver
	// Present lists the kinds in the rule; BYDAY changes behavior with them
	Present KindSet
}

func (c Context) resolve(v temporal.Value, f temporal.Field, n int) int {
	if c.Resolve == nil {
		return n
	}
	return c.Resolve(v, f, n)
}

// fieldSupported is the RFC 5545 "ignore" guard: BYSECOND, BYMINUTE and BYHOUR
// on a DATE start are skipped rather than rejected.
func (c Context) fieldSupported(f temporal.Field) bool {
	return c.Start == nil || c.Start.Supports(f)
}
