package byrule

import (
	"testing"
	"time"

	"github.com/cyp0633/caldora-recur/temporal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) temporal.Value {
	return temporal.FromTime(time.Date(year, month, day, 9, 0, 0, 0, time.UTC))
}

func dayStrings(values []temporal.Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.String()[:8]
	}
	return out
}

func TestParseWeekdayNum(t *testing.T) {
	tests := []struct {
		in      string
		want    WeekdayNum
		wantErr bool
	}{
		{in: "MO", want: WeekdayNum{Weekday: time.Monday}},
		{in: "1TU", want: WeekdayNum{N: 1, Weekday: time.Tuesday}},
		{in: "-1FR", want: WeekdayNum{N: -1, Weekday: time.Friday}},
		{in: "+2WE", want: WeekdayNum{N: 2, Weekday: time.Wednesday}},
		{in: "su", want: WeekdayNum{Weekday: time.Sunday}},
		{in: "0MO", wantErr: true},
		{in: "54MO", wantErr: true},
		{in: "XMO", wantErr: true},
		{in: "XX", wantErr: true},
		{in: "M", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekdayNum(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDayPart(t *testing.T) {
	p, err := ParseDayPart("MO,-1FR,+2WE,MO")
	require.NoError(t, err)
	assert.Equal(t, "MO,-1FR,2WE", p.String())
	assert.True(t, p.HasOrdinals())
	assert.Equal(t, Day, p.Kind())

	_, err = ParseDayPart("")
	assert.ErrorIs(t, err, ErrParse)

	_, err = NewDayPart(WeekdayNum{Weekday: time.Weekday(9)})
	assert.ErrorIs(t, err, ErrInvalidRuleValue)
}

func TestDayPart_WeeklyExpand(t *testing.T) {
	p, err := ParseDayPart("TH,TU")
	require.NoError(t, err)
	start := date(2024, time.January, 1) // Monday

	out, err := p.Transform(Of(start), Context{Frequency: temporal.Weeks, Start: start})
	require.NoError(t, err)
	assert.Equal(t, []string{"20240104", "20240102"}, dayStrings(Collect(out)))
}

func TestDayPart_MonthlyExpand(t *testing.T) {
	start := date(2024, time.January, 10)
	ctx := Context{Frequency: temporal.Months, Start: start}

	every, err := ParseDayPart("MO")
	require.NoError(t, err)
	out, err := every.Transform(Of(start), ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20240101", "20240108", "20240115", "20240122", "20240129"}, dayStrings(Collect(out)))

	lastFriday, err := ParseDayPart("-1FR")
	require.NoError(t, err)
	out, err = lastFriday.Transform(Of(start), ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20240126"}, dayStrings(Collect(out)))

	fifthFriday, err := ParseDayPart("5FR")
	require.NoError(t, err)
	feb := date(2024, time.February, 1)
	out, err = fifthFriday.Transform(Of(feb), ctx)
	require.NoError(t, err)
	assert.Empty(t, Collect(out), "February 2024 has four Fridays")
}

func TestDayPart_MonthlyFilterWithMonthDay(t *testing.T) {
	p, err := ParseDayPart("2FR")
	require.NoError(t, err)
	ctx := Context{Frequency: temporal.Months, Present: NewKindSet(MonthDay, Day)}

	in := Of(date(2024, time.January, 5), date(2024, time.January, 12), date(2024, time.January, 13))
	out, err := p.Transform(in, ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20240112"}, dayStrings(Collect(out)))
}

func TestDayPart_YearlyExpand(t *testing.T) {
	start := date(2024, time.January, 1)

	p, err := ParseDayPart("20MO")
	require.NoError(t, err)
	out, err := p.Transform(Of(start), Context{Frequency: temporal.Years, Start: start})
	require.NoError(t, err)
	assert.Equal(t, []string{"20240513"}, dayStrings(Collect(out)))

	// With BYMONTH the ordinal counts within the month
	first, err := ParseDayPart("1SU")
	require.NoError(t, err)
	march := date(2024, time.March, 20)
	out, err = first.Transform(Of(march), Context{Frequency: temporal.Years, Present: NewKindSet(Month, Day)})
	require.NoError(t, err)
	assert.Equal(t, []string{"20240303"}, dayStrings(Collect(out)))

	// With BYWEEKNO the expansion stays within the week
	weekly, err := ParseDayPart("MO,SU")
	require.NoError(t, err)
	out, err = weekly.Transform(Of(date(2024, time.May, 15)), Context{Frequency: temporal.Years, Present: NewKindSet(WeekNumber, Day)})
	require.NoError(t, err)
	assert.Equal(t, []string{"20240513", "20240519"}, dayStrings(Collect(out)))
}

func TestDayPart_DailyFilter(t *testing.T) {
	p, err := ParseDayPart("MO,WE")
	require.NoError(t, err)

	var in []temporal.Value
	for d := 1; d <= 7; d++ {
		in = append(in, date(2024, time.January, d))
	}
	out, err := p.Transform(Of(in...), Context{Frequency: temporal.Days})
	require.NoError(t, err)
	assert.Equal(t, []string{"20240101", "20240103"}, dayStrings(Collect(out)))
}

func TestDayPart_UnsupportedFrequency(t *testing.T) {
	p, err := ParseDayPart("MO")
	require.NoError(t, err)
	_, err = p.Transform(Of(date(2024, time.January, 1)), Context{Frequency: temporal.Unit(0)})
	assert.ErrorIs(t, err, ErrUnsupportedFrequency)
}
