package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/cyp0633/caldora-recur/recurrence/byrule"
	"github.com/cyp0633/caldora-recur/temporal"
)

// XCalNamespace is the xCal (RFC 6321) namespace
const XCalNamespace = "urn:ietf:params:xml:ns:icalendar-2.0"

// xcalPartOrder is the element order of the RFC 6321 recur schema
var xcalPartOrder = []byrule.Kind{
	byrule.Second, byrule.Minute, byrule.Hour, byrule.Day, byrule.MonthDay,
	byrule.YearDay, byrule.WeekNumber, byrule.Month, byrule.SetPosition,
}

// EncodeXCal returns the rule as an xCal <recur> element
func (r *Rule) EncodeXCal() *etree.Element {
	recur := etree.NewElement("recur")
	recur.CreateElement("freq").SetText(r.Frequency.Frequency())
	if r.Until != nil {
		recur.CreateElement("until").SetText(xcalDateTime(r.Until.String()))
	}
	if r.Count > 0 {
		recur.CreateElement("count").SetText(strconv.Itoa(r.Count))
	}
	if r.Interval > 1 {
		recur.CreateElement("interval").SetText(strconv.Itoa(r.Interval))
	}
	for _, k := range xcalPartOrder {
		for _, p := range r.Parts {
			if p.Kind() != k {
				continue
			}
			tag := strings.ToLower(k.String())
			for _, v := range strings.Split(p.String(), ",") {
				recur.CreateElement(tag).SetText(v)
			}
		}
	}
	if r.WeekStart != time.Monday {
		recur.CreateElement("wkst").SetText(temporal.WeekdayCode(r.WeekStart))
	}
	return recur
}

// MarshalXCal renders the rule as a standalone xCal document
func (r *Rule) MarshalXCal() (string, error) {
	doc := etree.NewDocument()
	recur := r.EncodeXCal()
	recur.CreateAttr("xmlns", XCalNamespace)
	doc.SetRoot(recur)
	return doc.WriteToString()
}

// DecodeXCalRecur parses an xCal <recur> element
func DecodeXCalRecur(el *etree.Element) (*Rule, error) {
	if el == nil || el.Tag != "recur" {
		return nil, fmt.Errorf("%w: expected <recur> element", ErrInvalidRule)
	}

	var keys []string
	values := make(map[string][]string)
	for _, child := range el.ChildElements() {
		key := strings.ToUpper(child.Tag)
		text := strings.TrimSpace(child.Text())
		if key == "UNTIL" {
			text = strings.NewReplacer("-", "", ":", "").Replace(text)
		}
		if _, ok := values[key]; !ok {
			keys = append(keys, key)
		}
		values[key] = append(values[key], text)
	}

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		if !strings.HasPrefix(key, "BY") && len(values[key]) > 1 {
			return nil, fmt.Errorf("%w: <%s> given twice", ErrInvalidRule, strings.ToLower(key))
		}
		pairs = append(pairs, key+"="+strings.Join(values[key], ","))
	}
	return ParseRule(strings.Join(pairs, ";"))
}

// UnmarshalXCal parses a document whose root is an xCal <recur> element
func UnmarshalXCal(s string) (*Rule, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}
	return DecodeXCalRecur(doc.Root())
}

// xcalDateTime converts "20240131T090000Z" to "2024-01-31T09:00:00Z" and
// "20240131" to "2024-01-31"
func xcalDateTime(s string) string {
	if len(s) < 8 {
		return s
	}
	date := s[0:4] + "-" + s[4:6] + "-" + s[6:8]
	if len(s) < 15 {
		return date
	}
	return date + "T" + s[9:11] + ":" + s[11:13] + ":" + s[13:15] + s[15:]
}
