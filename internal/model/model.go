package model

import "time"

// RawEvent is one <event> element as it appears in the feed, before any
// normalization. It only lives for the duration of a single classify pass.
type RawEvent struct {
	Title   string
	Country string
	Date    string // MM-DD-YYYY
	Time    string // free text: "8:30am", "13:00", "All Day", "TBA", ...
	Impact  string
	URL     string
}

// Bucket classifies an event relative to the reference day in the display
// timezone.
type Bucket int

const (
	BucketToday Bucket = iota
	BucketUpcoming
)

func (b Bucket) String() string {
	if b == BucketToday {
		return "today"
	}
	return "upcoming"
}

// Event is the normalized, immutable unit produced by classification.
// All display fields are derived from InstantUTC in the configured display
// timezone; the aggregator only reorders and truncates lists of these.
type Event struct {
	// InstantUTC is the absolute event time (feed date+time, UTC convention).
	InstantUTC time.Time

	// DisplayTime is "HH:MM <zone abbrev>" in the display timezone.
	DisplayTime string
	// DisplayDate is "DD Month YYYY" in the display timezone.
	DisplayDate string
	// DisplayDay is the display-timezone calendar date, used for bucketing
	// and upcoming-sort ordering.
	DisplayDay time.Time

	// UTCTime is "HH:MM UTC".
	UTCTime string

	Currency string
	Impact   string
	Title    string
	Link     string

	Bucket Bucket
}

// Classified is the outcome of one classification pass over a raw feed.
type Classified struct {
	Today    []Event
	Upcoming []Event

	// TodayStr is the reference date as YYYY-MM-DD in the display zone,
	// shown in the embed title.
	TodayStr string

	Counts ClassifyCounts
}

// ClassifyCounts are per-run diagnostics; skipped records are counted,
// never surfaced to users.
type ClassifyCounts struct {
	Processed int
	NoDate    int
	PastDays  int
	Fuzzy     int
	Filtered  int
}

// Embed is the rendered message in the webhook transport's shape.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Color       int          `json:"color"`
	Fields      []EmbedField `json:"fields"`
	Footer      EmbedFooter  `json:"footer"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

// RunSummary records the outcome of the most recent pipeline run for the
// status API.
type RunSummary struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	FeedCount  int            `json:"feed_count"`
	Today      int            `json:"today"`
	Upcoming   int            `json:"upcoming"`
	Counts     ClassifyCounts `json:"counts"`
	Delivered  bool           `json:"delivered"`
	Error      string         `json:"error,omitempty"`
}
