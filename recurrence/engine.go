package recurrence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/cyp0633/caldora-recur/recurrence/byrule"
	"github.com/cyp0633/caldora-recur/temporal"
)

// Engine provides unified recurrence expansion and validation logic
type Engine struct {
	cache  *RecurrenceCache
	config EngineConfig
	logger *slog.Logger
}

// NewEngine creates a new recurrence engine with DefaultEngineConfig
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig)
}

// Close stops the engine's cache, if any
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// HasOccurrenceInRange checks if a recurring event has any occurrence in the time range.
// It stops at the first match instead of expanding the whole range.
func (e *Engine) HasOccurrenceInRange(
	masterStart temporal.Value, duration time.Duration,
	info RecurrenceInfo,
	rangeStart, rangeEnd time.Time,
) (bool, error) {
	// Fast path: the master instance itself
	if overlaps(masterStart.Time(), duration, rangeStart, rangeEnd) && !isExcluded(masterStart, info.EXDATE) {
		return true, nil
	}

	if info.Rule != nil {
		found, err := e.hasRuleOccurrenceInRange(masterStart, duration, info, rangeStart, rangeEnd)
		if err != nil {
			return false, fmt.Errorf("failed to check RRULE occurrences: %w", err)
		}
		if found {
			return true, nil
		}
	}

	for _, rdate := range info.RDATE {
		if overlaps(rdate.Time(), duration, rangeStart, rangeEnd) && !isExcluded(rdate, info.EXDATE) {
			return true, nil
		}
	}

	return false, nil
}

// hasRuleOccurrenceInRange walks the rule lazily. Very large ranges are cut to
// LargeRangeLimit, and at most MaxExpansionOccurrences in-range occurrences
// are checked against EXDATE.
func (e *Engine) hasRuleOccurrenceInRange(
	masterStart temporal.Value, duration time.Duration,
	info RecurrenceInfo, rangeStart, rangeEnd time.Time,
) (bool, error) {
	limitedRangeEnd := rangeEnd
	if e.config.LargeRangeThreshold > 0 && rangeEnd.Sub(rangeStart) > e.config.LargeRangeThreshold {
		limitedRangeEnd = rangeStart.Add(e.config.LargeRangeLimit)
		e.logger.Debug("limiting occurrence check range",
			"rule", info.Rule.String(),
			"range_end", rangeEnd,
			"limited_end", limitedRangeEnd)
	}

	seq, err := info.Rule.All(masterStart)
	if err != nil {
		return false, err
	}

	checked := 0
	for v := range seq {
		t := v.Time()
		if t.After(limitedRangeEnd) {
			break
		}
		if !overlaps(t, duration, rangeStart, limitedRangeEnd) {
			continue
		}
		if !isExcluded(v, info.EXDATE) {
			return true, nil
		}
		checked++
		if e.config.MaxExpansionOccurrences > 0 && checked >= e.config.MaxExpansionOccurrences {
			break
		}
	}
	return false, nil
}

// Expand lists the occurrences of an event that overlap the range: the master
// instance, the RRULE and RDATE instances, minus EXDATE. Results are cached
// when the engine has a cache.
func (e *Engine) Expand(
	masterStart temporal.Value, duration time.Duration,
	info RecurrenceInfo,
	rangeStart, rangeEnd time.Time,
	opts ExpansionOptions,
) ([]TimeOccurrence, error) {
	var key string
	if e.cache != nil {
		op := fmt.Sprintf("expand:%d:%s", opts.MaxOccurrences, opts.MaxTimeSpan)
		key = CacheKey(op, masterStart, duration, info, rangeStart, rangeEnd)
		if cached, ok := e.cache.Get(key).Get(); ok {
			e.logger.Debug("recurrence cache hit", "start", masterStart.String(), "occurrences", len(cached))
			return cached, nil
		}
	}

	horizon := rangeEnd
	if opts.MaxTimeSpan > 0 {
		if h := masterStart.Time().Add(opts.MaxTimeSpan); h.Before(horizon) {
			horizon = h
		}
	}

	// DTSTART is always the first instance, whether or not the rule matches it
	starts := []temporal.Value{masterStart}
	if info.Rule != nil {
		seq, err := info.Rule.All(masterStart)
		if err != nil {
			return nil, fmt.Errorf("failed to expand RRULE: %w", err)
		}
		for v := range seq {
			if v.Time().After(horizon) {
				break
			}
			starts = append(starts, v)
		}
	}
	starts = append(starts, info.RDATE...)

	var occurrences []TimeOccurrence
	for _, v := range byrule.SortUnique(byrule.Of(starts...)) {
		t := v.Time()
		if t.After(horizon) {
			break
		}
		if !overlaps(t, duration, rangeStart, rangeEnd) || isExcluded(v, info.EXDATE) {
			continue
		}
		occurrences = append(occurrences, TimeOccurrence{
			Start:        v,
			End:          t.Add(duration),
			RecurrenceID: v,
		})
		if opts.MaxOccurrences > 0 && len(occurrences) >= opts.MaxOccurrences {
			e.logger.Debug("expansion limit reached", "start", masterStart.String(), "limit", opts.MaxOccurrences)
			break
		}
	}

	if e.cache != nil {
		e.cache.Set(key, occurrences)
	}
	return occurrences, nil
}

// overlaps uses the CalDAV time-range test: start <= rangeEnd AND end >= rangeStart
func overlaps(start time.Time, duration time.Duration, rangeStart, rangeEnd time.Time) bool {
	return !start.After(rangeEnd) && !start.Add(duration).Before(rangeStart)
}

// isExcluded checks if a given occurrence is in the EXDATE list
func isExcluded(v temporal.Value, exdates []temporal.Value) bool {
	t := v.Time()
	for _, exdate := range exdates {
		// Date-only exceptions remove every occurrence on that calendar day
		if _, dateOnly := exdate.(temporal.Date); dateOnly {
			y, m, d := t.Date()
			ey, em, ed := exdate.Time().Date()
			if y == ey && m == em && d == ed {
				return true
			}
			continue
		}
		if t.Equal(exdate.Time()) {
			return true
		}
	}
	return false
}
