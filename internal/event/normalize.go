// Package event turns raw feed records into normalized, bucketed events.
package event

import (
	"errors"
	"strings"
	"time"
)

// dateLayout is the feed's MM-DD-YYYY date token format.
const dateLayout = "01-02-2006"

// clockLayouts are the accepted clock formats, tried in order: 12-hour with
// no space before the marker, 24-hour, 12-hour with a space.
var clockLayouts = []string{"3:04pm", "15:04", "3:04 pm"}

// ErrFuzzyTime classifies a time token that denotes no single instant
// (TBA, tentative, all-day) or that matched none of the accepted clock
// formats. Not an error condition; such records are excluded and counted.
var ErrFuzzyTime = errors.New("fuzzy or unparsable time")

// IsFuzzyTime reports whether the raw time token is a recognized fuzzy
// marker. An all-day event has no instant to normalize, so it must never be
// forced into one.
func IsFuzzyTime(tok string) bool {
	tok = strings.TrimSpace(tok)
	if tok == "" || tok == "TBA" || tok == "Tentative" {
		return true
	}
	return strings.Contains(tok, "All Day")
}

// Instant combines a raw date token and time token into a UTC instant,
// following the feed's implicit UTC convention. Returns ErrFuzzyTime for
// fuzzy markers and for clock strings that match no accepted format.
func Instant(dateTok, timeTok string) (time.Time, error) {
	if IsFuzzyTime(timeTok) {
		return time.Time{}, ErrFuzzyTime
	}

	// The feed mixes "8:30am", "13:00" and "8:30 am" style entries.
	// Lowercasing lets one am/pm layout cover both marker casings.
	lowered := strings.ToLower(strings.TrimSpace(timeTok))
	var clock time.Time
	matched := false
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, lowered); err == nil {
			clock = t
			matched = true
			break
		}
	}
	if !matched {
		return time.Time{}, ErrFuzzyTime
	}

	day, err := time.Parse(dateLayout, strings.TrimSpace(dateTok))
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}

// Display holds the display-timezone derivations of an instant. All fields
// come from the instant; none are independently sourced.
type Display struct {
	// Day is the display-zone calendar date at midnight, used for
	// bucketing and ordering.
	Day time.Time
	// Time is "HH:MM <abbrev>" in the display zone.
	Time string
	// Date is "DD Month YYYY" in the display zone.
	Date string
	// UTC is "HH:MM UTC".
	UTC string
}

// DisplayIn derives the display-zone calendar date and clock strings for a
// UTC instant.
func DisplayIn(instant time.Time, loc *time.Location) Display {
	local := instant.In(loc)
	abbrev := local.Format("MST")
	return Display{
		Day:  time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc),
		Time: local.Format("15:04") + " " + abbrev,
		Date: local.Format("02 January 2006"),
		UTC:  instant.UTC().Format("15:04") + " UTC",
	}
}
