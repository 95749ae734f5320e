package byrule

import (
	"testing"
	"time"

	"github.com/cyp0633/caldora-recur/temporal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	for _, k := range Order {
		got, err := Lookup(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := Lookup("byMinute")
	require.NoError(t, err)
	assert.Equal(t, Minute, got)

	_, err = Lookup("BYFORTNIGHT")
	assert.ErrorIs(t, err, ErrUnknownRulePart)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		expect Part
	}{
		{"BYMINUTE", "5,10", &IntPart{}},
		{"bysecond", "0", &IntPart{}},
		{"BYDAY", "MO,-1FR", &DayPart{}},
		{"BYSETPOS", "-1", &SetPosPart{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.name, tt.token)
			require.NoError(t, err)
			assert.IsType(t, tt.expect, p)
			assert.Equal(t, tt.token, p.String())
		})
	}

	_, err := Parse("BYMONTH", "13")
	assert.ErrorIs(t, err, ErrInvalidRuleValue)
	_, err = Parse("BYWHATEVER", "1")
	assert.ErrorIs(t, err, ErrUnknownRulePart)
	_, err = Parse("BYSETPOS", "0")
	assert.ErrorIs(t, err, ErrInvalidRuleValue)
}

func TestSort(t *testing.T) {
	var parts []Part
	for _, name := range []string{"BYSETPOS", "BYMINUTE", "BYDAY", "BYMONTH", "BYHOUR"} {
		token := "1"
		if name == "BYDAY" {
			token = "MO"
		}
		p, err := Parse(name, token)
		require.NoError(t, err)
		parts = append(parts, p)
	}

	Sort(parts)

	var kinds []Kind
	for _, p := range parts {
		kinds = append(kinds, p.Kind())
	}
	assert.Equal(t, []Kind{Month, Day, Hour, Minute, SetPosition}, kinds)

	set := KindsOf(parts)
	assert.True(t, set.Has(Day))
	assert.False(t, set.Has(MonthDay))
}

func TestApply_DailyTimes(t *testing.T) {
	hours, err := Parse("BYHOUR", "9,17")
	require.NoError(t, err)
	minutes, err := Parse("BYMINUTE", "0,30")
	require.NoError(t, err)

	start := temporal.FromTime(time.Date(2024, 1, 1, 8, 15, 0, 0, time.UTC))
	out, err := Apply(Of(start), []Part{hours, minutes}, Context{Frequency: temporal.Days, Start: start})
	require.NoError(t, err)

	var got []string
	for _, v := range Collect(out) {
		got = append(got, v.String())
	}
	assert.Equal(t, []string{
		"20240101T090000Z", "20240101T093000Z", "20240101T170000Z", "20240101T173000Z",
	}, got)
}

func TestApply_StopsAtFirstError(t *testing.T) {
	minutes, err := Parse("BYMINUTE", "0")
	require.NoError(t, err)
	weekNo, err := Parse("BYWEEKNO", "1")
	require.NoError(t, err)

	start := temporal.FromTime(time.Date(2024, 1, 1, 8, 15, 0, 0, time.UTC))
	_, err = Apply(Of(start), []Part{weekNo, minutes}, Context{Frequency: temporal.Days, Start: start})
	assert.ErrorIs(t, err, ErrUnsupportedFrequency)
}

func kindsOf(parts []Part) []Kind {
	var kinds []Kind
	for _, p := range parts {
		kinds = append(kinds, p.Kind())
	}
	return kinds
}

func TestArrange(t *testing.T) {
	parse := func(name, token string) Part {
		p, err := Parse(name, token)
		require.NoError(t, err)
		return p
	}

	weekly := []Part{parse("BYMONTH", "1"), parse("BYDAY", "FR"), parse("BYHOUR", "9"), parse("BYSETPOS", "1")}
	ctx := Context{Frequency: temporal.Weeks, Present: KindsOf(weekly)}
	assert.Equal(t, []Kind{Day, Hour, Month, SetPosition}, kindsOf(Arrange(weekly, ctx)))
	assert.Equal(t, []Kind{Month, Day, Hour, SetPosition}, kindsOf(weekly), "input is left alone")

	yearly := []Part{parse("BYMONTHDAY", "1"), parse("BYMONTH", "2"), parse("BYYEARDAY", "32")}
	ctx = Context{Frequency: temporal.Years, Present: KindsOf(yearly)}
	assert.Equal(t, []Kind{YearDay, Month, MonthDay}, kindsOf(Arrange(yearly, ctx)))

	daily := []Part{parse("BYMINUTE", "0"), parse("BYMONTH", "1"), parse("BYHOUR", "9")}
	ctx = Context{Frequency: temporal.Days, Present: KindsOf(daily)}
	assert.Equal(t, []Kind{Hour, Minute, Month}, kindsOf(Arrange(daily, ctx)))
}

func TestApply_MonthFilterAfterDayExpand(t *testing.T) {
	month, err := Parse("BYMONTH", "1")
	require.NoError(t, err)
	day, err := Parse("BYDAY", "FR")
	require.NoError(t, err)
	parts := []Part{month, day}

	seed := temporal.FromTime(time.Date(2025, 12, 31, 9, 0, 0, 0, time.UTC))
	ctx := Context{Frequency: temporal.Weeks, Start: seed, Present: KindsOf(parts)}

	out, err := Apply(Of(seed), parts, ctx)
	require.NoError(t, err)
	assert.Empty(t, Collect(out), "the December seed fails BYMONTH before BYDAY reaches January")

	out, err = Apply(Of(seed), Arrange(parts, ctx), ctx)
	require.NoError(t, err)
	got := Collect(out)
	require.Len(t, got, 1)
	assert.Equal(t, "20260102T090000Z", got[0].String())
}
