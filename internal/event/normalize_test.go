package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFuzzyTime(t *testing.T) {
	fuzzy := []string{"", "TBA", "Tentative", "All Day", "2nd All Day Event", "   "}
	for _, tok := range fuzzy {
		assert.True(t, IsFuzzyTime(tok), "token %q should be fuzzy", tok)
	}

	concrete := []string{"8:30am", "13:00", "8:30 am", "11:45pm"}
	for _, tok := range concrete {
		assert.False(t, IsFuzzyTime(tok), "token %q should not be fuzzy", tok)
	}
}

func TestInstantFuzzyTokensNeverYieldAnInstant(t *testing.T) {
	for _, tok := range []string{"", "TBA", "Tentative", "All Day", "morning-ish"} {
		_, err := Instant("01-15-2025", tok)
		assert.ErrorIs(t, err, ErrFuzzyTime, "token %q", tok)
	}
}

func TestInstantAllClockFormatsAgree(t *testing.T) {
	want := time.Date(2025, time.January, 15, 8, 30, 0, 0, time.UTC)

	for _, tok := range []string{"8:30am", "08:30", "8:30 am", "8:30AM"} {
		got, err := Instant("01-15-2025", tok)
		require.NoError(t, err, "token %q", tok)
		assert.True(t, got.Equal(want), "token %q gave %v", tok, got)
	}
}

func TestInstantAfternoon(t *testing.T) {
	got, err := Instant("03-07-2025", "2:15pm")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 7, 14, 15, 0, 0, time.UTC), got)
}

func TestInstantBadDate(t *testing.T) {
	_, err := Instant("2025-01-15", "8:30am")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrFuzzyTime)
}

func TestDisplayIn(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	instant := time.Date(2025, time.January, 15, 8, 30, 0, 0, time.UTC)
	d := DisplayIn(instant, jakarta)

	assert.Equal(t, "15:30 WIB", d.Time)
	assert.Equal(t, "15 January 2025", d.Date)
	assert.Equal(t, "08:30 UTC", d.UTC)
	assert.Equal(t, time.Date(2025, time.January, 15, 0, 0, 0, 0, jakarta), d.Day)
}

func TestDisplayInRollsIntoNextDay(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	// 23:30 UTC is already the next calendar day in UTC+7.
	instant := time.Date(2025, time.January, 15, 23, 30, 0, 0, time.UTC)
	d := DisplayIn(instant, jakarta)

	assert.Equal(t, time.Date(2025, time.January, 16, 0, 0, 0, 0, jakarta), d.Day)
	assert.Equal(t, "06:30 WIB", d.Time)
	assert.Equal(t, "16 January 2025", d.Date)
}
