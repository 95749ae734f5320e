package recurrence

import (
	"testing"
	"time"

	"github.com/cyp0633/caldora-recur/recurrence/byrule"
	"github.com/cyp0633/caldora-recur/temporal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRule(t *testing.T) {
	r, err := ParseRule("RRULE:FREQ=MONTHLY;BYDAY=-1FR;BYHOUR=9;INTERVAL=2;COUNT=6;WKST=SU")
	require.NoError(t, err)

	assert.Equal(t, temporal.Months, r.Frequency)
	assert.Equal(t, 2, r.Interval)
	assert.Equal(t, 6, r.Count)
	assert.Nil(t, r.Until)
	assert.Equal(t, time.Sunday, r.WeekStart)
	require.Len(t, r.Parts, 2)
	assert.Equal(t, byrule.Day, r.Parts[0].Kind())
	assert.Equal(t, byrule.Hour, r.Parts[1].Kind())
}

func TestParseRule_Until(t *testing.T) {
	r, err := ParseRule("FREQ=DAILY;UNTIL=20240110T000000Z")
	require.NoError(t, err)
	require.NotNil(t, r.Until)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), r.Until.Time())

	r, err = ParseRule("FREQ=DAILY;UNTIL=20240110")
	require.NoError(t, err)
	assert.IsType(t, temporal.Date{}, r.Until)
}

func TestParseRule_Errors(t *testing.T) {
	tests := []struct {
		name string
		rule string
		is   error
	}{
		{"empty", "", ErrInvalidRule},
		{"missing freq", "COUNT=3", ErrInvalidRule},
		{"unknown freq", "FREQ=FORTNIGHTLY", temporal.ErrUnknownFrequency},
		{"not a pair", "FREQ=DAILY;COUNT", ErrInvalidRule},
		{"duplicate key", "FREQ=DAILY;FREQ=WEEKLY", ErrInvalidRule},
		{"unknown key", "FREQ=DAILY;FOO=1", ErrInvalidRule},
		{"unknown part", "FREQ=DAILY;BYFOO=1", byrule.ErrUnknownRulePart},
		{"zero interval", "FREQ=DAILY;INTERVAL=0", ErrInvalidRule},
		{"count and until", "FREQ=DAILY;COUNT=2;UNTIL=20240101T000000Z", ErrInvalidRule},
		{"illegal minute", "FREQ=DAILY;BYMINUTE=60", byrule.ErrInvalidRuleValue},
		{"malformed minute", "FREQ=DAILY;BYMINUTE=a", byrule.ErrParse},
		{"ordinal in weekly rule", "FREQ=WEEKLY;BYDAY=1MO", ErrInvalidRule},
		{"ordinal with weekno", "FREQ=YEARLY;BYWEEKNO=1;BYDAY=1MO", ErrInvalidRule},
		{"bad wkst", "FREQ=WEEKLY;WKST=XX", temporal.ErrUnknownWeekday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRule(tt.rule)
			assert.ErrorIs(t, err, ErrInvalidRule)
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestRule_String(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"FREQ=DAILY", "FREQ=DAILY"},
		{"COUNT=5;FREQ=weekly;BYDAY=TU,TH;INTERVAL=1", "FREQ=WEEKLY;COUNT=5;BYDAY=TU,TH"},
		{"BYSETPOS=-1;BYDAY=MO,TU;FREQ=MONTHLY;WKST=SU", "FREQ=MONTHLY;BYDAY=MO,TU;BYSETPOS=-1;WKST=SU"},
		{"FREQ=YEARLY;BYMINUTE=30,0;BYMONTH=3;UNTIL=20300101T000000Z", "FREQ=YEARLY;UNTIL=20300101T000000Z;BYMONTH=3;BYMINUTE=30,0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := ParseRule(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.String())

			again, err := ParseRule(r.String())
			require.NoError(t, err)
			assert.Equal(t, r.String(), again.String())
		})
	}
}

func TestParseParts(t *testing.T) {
	results := ParseParts([][2]string{
		{"BYMINUTE", "0,30"},
		{"BYHOUR", "25"},
		{"BYDAY", "MO"},
	})
	require.Len(t, results, 3)

	assert.True(t, results[0].IsOk())
	assert.Equal(t, "0,30", results[0].MustGet().String())
	assert.True(t, results[1].IsError())
	assert.ErrorIs(t, results[1].Error(), byrule.ErrInvalidRuleValue)
	assert.True(t, results[2].IsOk())
}

func TestRule_Validate(t *testing.T) {
	minute, err := byrule.NewIntPart(byrule.Minute, 0)
	require.NoError(t, err)
	other, err := byrule.NewIntPart(byrule.Minute, 30)
	require.NoError(t, err)

	r := &Rule{Frequency: temporal.Hours, Parts: []byrule.Part{minute, other}}
	assert.ErrorIs(t, r.Validate(), ErrInvalidRule)

	r = &Rule{Frequency: temporal.Hours, Interval: -1}
	assert.ErrorIs(t, r.Validate(), ErrInvalidRule)

	r = &Rule{Frequency: temporal.Hours, Parts: []byrule.Part{minute}}
	assert.NoError(t, r.Validate())
}
