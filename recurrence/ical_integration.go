package recurrence

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cyp0633/caldora-recur/parameter"
	"github.com/cyp0633/caldora-recur/temporal"
	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const (
	propRecurrenceID = "RECURRENCE-ID"
	paramValue       = "VALUE"
	paramTimezoneID  = "TZID"
	paramRange       = "RANGE"
)

var ErrNoStart = errors.New("component has no start time")

// ExtractRecurrenceInfoFromComponent extracts recurrence information from an iCal component
func ExtractRecurrenceInfoFromComponent(comp *ical.Component) (RecurrenceInfo, error) {
	info := RecurrenceInfo{}

	if rruleProp := comp.Props.Get(ical.PropRecurrenceRule); rruleProp != nil && rruleProp.Value != "" {
		rule, err := ParseRule(rruleProp.Value)
		if err != nil {
			return info, fmt.Errorf("failed to parse RRULE '%s': %w", rruleProp.Value, err)
		}
		info.Rule = rule
	}

	info.RDATE = parseDateList(comp.Props[ical.PropRecurrenceDates])
	info.EXDATE = parseDateList(comp.Props[ical.PropExceptionDates])

	// RECURRENCE-ID marks an exception instance
	if recurrenceIDProp := comp.Props.Get(propRecurrenceID); recurrenceIDProp != nil && recurrenceIDProp.Value != "" {
		if recID, err := parseDateTime(recurrenceIDProp.Value, recurrenceIDProp.Params); err == nil {
			info.RecurrenceID = recID
		}
		rng, err := parameter.ParseRange(recurrenceIDProp.Params.Get(paramRange))
		if err != nil {
			return info, err
		}
		info.Range = rng
	}

	return info, nil
}

// ExtractStart returns DTSTART as a temporal value: a Date for VALUE=DATE,
// otherwise a DateTime in its TZID location
func ExtractStart(comp *ical.Component) (temporal.Value, error) {
	prop := comp.Props.Get(ical.PropDateTimeStart)
	if prop == nil || prop.Value == "" {
		return nil, ErrNoStart
	}
	return parseDateTime(prop.Value, prop.Params)
}

// ExtractBasicTimeInfoFromComponent extracts the start and duration of an iCal component
func ExtractBasicTimeInfoFromComponent(comp *ical.Component) (start temporal.Value, duration time.Duration, hasTime bool) {
	if s, err := ExtractStart(comp); err == nil {
		start = s
		hasTime = true
		_, allDay := start.(temporal.Date)

		// Either DTEND or DURATION or a default
		if endProp := comp.Props.Get(ical.PropDateTimeEnd); endProp != nil {
			end, err := parseDateTime(endProp.Value, endProp.Params)
			if err != nil {
				return nil, 0, false
			}
			duration = end.Time().Sub(start.Time())
			// An all-day event ending on its start date lasts one day
			if allDay && duration == 0 {
				duration = 24 * time.Hour
			}
		} else if durationProp := comp.Props.Get(ical.PropDuration); durationProp != nil {
			d, err := durationProp.Duration()
			if err != nil {
				return nil, 0, false
			}
			duration = d
		} else if allDay {
			// All-day events default to one day, timed events are instantaneous
			duration = 24 * time.Hour
		}
	}

	// For VTODO, also check DUE property
	if comp.Name == ical.CompToDo {
		if dueProp := comp.Props.Get(ical.PropDue); dueProp != nil {
			if due, err := parseDateTime(dueProp.Value, dueProp.Params); err == nil {
				if !hasTime {
					start = due
					hasTime = true
				} else if d := due.Time().Sub(start.Time()); d > duration {
					duration = d
				}
			}
		}
	}

	return start, duration, hasTime
}

// parseDateList parses RDATE/EXDATE properties, each of which may hold a
// comma-separated list. Unparseable entries are skipped.
func parseDateList(props []ical.Prop) []temporal.Value {
	var values []temporal.Value
	for _, prop := range props {
		for _, s := range strings.Split(prop.Value, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			if v, err := parseDateTime(s, prop.Params); err == nil {
				values = append(values, v)
			}
		}
	}
	return values
}

// parseDateTime parses a DATE or DATE-TIME property value honoring VALUE and TZID
func parseDateTime(value string, params ical.Params) (temporal.Value, error) {
	if strings.EqualFold(params.Get(paramValue), "DATE") {
		return temporal.ParseDate(value)
	}

	loc := time.UTC
	if tzid := params.Get(paramTimezoneID); tzid != "" {
		if l, err := time.LoadLocation(tzid); err == nil {
			loc = l
		}
	}
	v, err := temporal.ParseDateTime(value, loc)
	if err != nil {
		// Fall back to a bare date
		return temporal.ParseDate(value)
	}
	return v, nil
}

// setTemporalProp replaces the property name with v, adding VALUE=DATE or
// TZID as needed
func setTemporalProp(props ical.Props, name string, v temporal.Value) {
	prop := ical.NewProp(name)
	prop.Value = v.String()
	if _, dateOnly := v.(temporal.Date); dateOnly {
		prop.Params.Set(paramValue, "DATE")
	} else if loc := v.Time().Location(); loc != time.UTC && loc != time.Local {
		prop.Params.Set(paramTimezoneID, loc.String())
	}
	props[name] = []ical.Prop{*prop}
}

func cloneComponent(src *ical.Component) *ical.Component {
	props := make(ical.Props, len(src.Props))
	for name, values := range src.Props {
		cloned := make([]ical.Prop, len(values))
		for i, p := range values {
			params := make(ical.Params, len(p.Params))
			for k, v := range p.Params {
				params[k] = slices.Clone(v)
			}
			p.Params = params
			cloned[i] = p
		}
		props[name] = cloned
	}
	var children []*ical.Component
	for _, child := range src.Children {
		children = append(children, cloneComponent(child))
	}
	return &ical.Component{Name: src.Name, Props: props, Children: children}
}

type override struct {
	comp     *ical.Component
	info     RecurrenceInfo
	start    temporal.Value
	duration time.Duration
}

// ExpandComponent expands a recurring master component into one detached
// component per occurrence overlapping the range. Each instance carries a
// RECURRENCE-ID and no RRULE, RDATE or EXDATE. When opts.IncludeExceptions is
// set, overrides (components with the same UID and a RECURRENCE-ID) replace
// the instance they name, and a THISANDFUTURE override also applies its
// properties and time shift to every later instance. A master without UID
// gets a generated one shared by all instances.
func (e *Engine) ExpandComponent(master *ical.Component, overrides []*ical.Component, rangeStart, rangeEnd time.Time, opts ExpansionOptions) ([]*ical.Component, error) {
	start, duration, ok := ExtractBasicTimeInfoFromComponent(master)
	if !ok {
		return nil, ErrNoStart
	}
	info, err := ExtractRecurrenceInfoFromComponent(master)
	if err != nil {
		return nil, err
	}

	uid := ""
	if p := master.Props.Get(ical.PropUID); p != nil {
		uid = p.Value
	}
	if uid == "" {
		uid = uuid.New().String()
	}

	var exact, future []override
	if opts.IncludeExceptions {
		for _, comp := range overrides {
			oInfo, err := ExtractRecurrenceInfoFromComponent(comp)
			if err != nil || oInfo.RecurrenceID == nil {
				e.logger.Debug("skipping override without usable RECURRENCE-ID", "uid", uid, "error", err)
				continue
			}
			oStart, oDuration, ok := ExtractBasicTimeInfoFromComponent(comp)
			if !ok {
				oStart, oDuration = oInfo.RecurrenceID, duration
			}
			o := override{comp: comp, info: oInfo, start: oStart, duration: oDuration}
			exact = append(exact, o)
			if oInfo.Range == parameter.ThisAndFuture && comp.Props.Get(propRecurrenceID).Params.Get(paramRange) != "" {
				future = append(future, o)
			}
		}
		slices.SortFunc(future, func(a, b override) int { return a.info.RecurrenceID.Compare(b.info.RecurrenceID) })
	}

	occurrences, err := e.Expand(start, duration, info, rangeStart, rangeEnd, opts)
	if err != nil {
		return nil, err
	}

	instances := make([]*ical.Component, 0, len(occurrences))
	for _, occ := range occurrences {
		src, instStart, instDuration := master, occ.Start, duration

		if i := slices.IndexFunc(exact, func(o override) bool { return o.info.RecurrenceID.Compare(occ.Start) == 0 }); i >= 0 {
			src, instStart, instDuration = exact[i].comp, exact[i].start, exact[i].duration
		} else {
			for _, o := range slices.Backward(future) {
				if o.info.RecurrenceID.Compare(occ.Start) > 0 {
					continue
				}
				shift := o.start.Time().Sub(o.info.RecurrenceID.Time())
				src, instDuration = o.comp, o.duration
				if _, dateOnly := occ.Start.(temporal.Date); dateOnly {
					instStart = occ.Start.Plus(temporal.Days, int(shift/(24*time.Hour)))
				} else {
					instStart = occ.Start.Plus(temporal.Seconds, int(shift/time.Second))
				}
				break
			}
		}

		inst := cloneComponent(src)
		delete(inst.Props, ical.PropRecurrenceRule)
		delete(inst.Props, ical.PropRecurrenceDates)
		delete(inst.Props, ical.PropExceptionDates)
		delete(inst.Props, ical.PropDuration)
		inst.Props.SetText(ical.PropUID, uid)
		setTemporalProp(inst.Props, ical.PropDateTimeStart, instStart)
		setTemporalProp(inst.Props, propRecurrenceID, occ.Start)
		if _, dateOnly := instStart.(temporal.Date); dateOnly {
			setTemporalProp(inst.Props, ical.PropDateTimeEnd, instStart.Plus(temporal.Days, int(instDuration/(24*time.Hour))))
		} else {
			setTemporalProp(inst.Props, ical.PropDateTimeEnd, instStart.Plus(temporal.Seconds, int(instDuration/time.Second)))
		}
		instances = append(instances, inst)
	}

	return instances, nil
}
