package recurrence

import (
	"time"

	"github.com/cyp0633/caldora-recur/parameter"
	"github.com/cyp0633/caldora-recur/temporal"
)

// RecurrenceInfo contains all recurrence-related information for an event
type RecurrenceInfo struct {
	Rule         *Rule            // Parsed RRULE, nil for non-recurring events
	RDATE        []temporal.Value // Additional recurrence dates
	EXDATE       []temporal.Value // Exception dates (excluded occurrences)
	RecurrenceID temporal.Value   // For exception instances - which occurrence this overrides
	Range        parameter.Range  // RANGE of the RECURRENCE-ID, THISANDFUTURE by default
}

// TimeOccurrence represents a single occurrence of an event in time
type TimeOccurrence struct {
	Start        temporal.Value // Start of this occurrence, same value type as DTSTART
	End          time.Time      // End time of this occurrence
	RecurrenceID temporal.Value // RECURRENCE-ID identifying this instance within the series
}

// ExpansionOptions controls how recurrence expansion behaves
type ExpansionOptions struct {
	MaxOccurrences    int           // Maximum number of occurrences to expand (0 = unlimited)
	MaxTimeSpan       time.Duration // Maximum time span from the master start to expand (0 = unlimited)
	IncludeExceptions bool          // Whether to include exception instances in expansion
}

// DefaultExpansionOptions provides sensible defaults for expansion
var DefaultExpansionOptions = ExpansionOptions{
	MaxOccurrences:    1000,                     // Reasonable limit to prevent infinite expansion
	MaxTimeSpan:       365 * 24 * time.Hour * 2, // 2 years
	IncludeExceptions: true,
}
