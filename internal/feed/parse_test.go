package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<weeklyevents>
  <event>
    <title> CPI y/y </title>
    <country>USD</country>
    <date>01-15-2025</date>
    <time>8:30am</time>
    <impact>High</impact>
    <url>https://www.forexfactory.com/calendar?day=jan15.2025</url>
  </event>
  <event>
    <title>Bank Holiday</title>
    <country>EUR</country>
    <date>01-16-2025</date>
    <time>All Day</time>
    <impact>Low</impact>
  </event>
</weeklyevents>`

func TestParse(t *testing.T) {
	records, err := Parse([]byte(sampleFeed))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "CPI y/y", records[0].Title)
	assert.Equal(t, "USD", records[0].Country)
	assert.Equal(t, "01-15-2025", records[0].Date)
	assert.Equal(t, "8:30am", records[0].Time)
	assert.Equal(t, "High", records[0].Impact)
	assert.Equal(t, "https://www.forexfactory.com/calendar?day=jan15.2025", records[0].URL)

	// Missing <url> is fine; it stays empty for downstream synthesis.
	assert.Equal(t, "", records[1].URL)
	assert.Equal(t, "All Day", records[1].Time)
}

func TestParseEmptyBody(t *testing.T) {
	_, err := Parse(nil)
	assert.Error(t, err)
}

func TestParseMalformedDocument(t *testing.T) {
	_, err := Parse([]byte("<weeklyevents><event><title>oops</weeklyevents>"))
	assert.Error(t, err)
}

func TestParseNoEvents(t *testing.T) {
	records, err := Parse([]byte("<weeklyevents></weeklyevents>"))
	require.NoError(t, err)
	assert.Empty(t, records)
}
