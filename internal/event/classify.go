package event

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fxnotify/internal/config"
	appLog "fxnotify/internal/log"
	"fxnotify/internal/metrics"
	"fxnotify/internal/model"
)

// FullCalendarURL is the upstream calendar landing page, used both as the
// "+N more" link and as a fallback when a per-day link cannot be built.
const FullCalendarURL = "https://www.forexfactory.com/calendar"

// Classifier filters raw records and assigns them to today/upcoming buckets
// relative to "now" in the display timezone. Filter values are taken as
// configured without validation; an impact level nothing in the feed uses
// simply admits nothing.
type Classifier struct {
	loc        *time.Location
	minImpact  string
	currencies map[string]struct{}
}

// NewClassifier builds a Classifier from the process configuration and the
// resolved display location.
func NewClassifier(cfg *config.Config, loc *time.Location) *Classifier {
	c := &Classifier{
		loc:       loc,
		minImpact: strings.ToLower(cfg.MinImpact),
	}
	if list := cfg.CurrencyList(); len(list) > 0 {
		c.currencies = make(map[string]struct{}, len(list))
		for _, cur := range list {
			c.currencies[cur] = struct{}{}
		}
	}
	return c
}

// Classify runs the per-record pipeline over a raw feed. One malformed
// record is skipped and counted; it never aborts the batch. Output order is
// feed order; the renderer sorts.
func (c *Classifier) Classify(records []model.RawEvent, now time.Time) model.Classified {
	nowLocal := now.In(c.loc)
	refDay := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, c.loc)

	out := model.Classified{
		TodayStr: nowLocal.Format("2006-01-02"),
	}
	appLog.Info("classifying feed records",
		"reference_date", out.TodayStr,
		"zone", nowLocal.Format("MST"),
		"record_count", len(records),
	)

	for _, rec := range records {
		switch c.classifyOne(rec, refDay, &out) {
		case skipNoDate:
			out.Counts.NoDate++
			metrics.RecordsSkipped.WithLabelValues("no_date").Inc()
		case skipFuzzy:
			out.Counts.Fuzzy++
			metrics.RecordsSkipped.WithLabelValues("fuzzy").Inc()
		case skipPast:
			out.Counts.PastDays++
			metrics.RecordsSkipped.WithLabelValues("past").Inc()
		case skipFiltered:
			out.Counts.Filtered++
			metrics.RecordsSkipped.WithLabelValues("filtered").Inc()
		case kept:
			out.Counts.Processed++
		}
	}

	appLog.Info("classification summary",
		"processed", out.Counts.Processed,
		"no_date", out.Counts.NoDate,
		"past_days", out.Counts.PastDays,
		"fuzzy", out.Counts.Fuzzy,
		"filtered", out.Counts.Filtered,
		"today", len(out.Today),
		"upcoming", len(out.Upcoming),
	)
	return out
}

type disposition int

const (
	kept disposition = iota
	skipNoDate
	skipFuzzy
	skipPast
	skipFiltered
)

func (c *Classifier) classifyOne(rec model.RawEvent, refDay time.Time, out *model.Classified) disposition {
	dateTok := strings.TrimSpace(rec.Date)
	if dateTok == "" {
		return skipNoDate
	}

	instant, err := Instant(dateTok, rec.Time)
	if err != nil {
		// Date parse failures land here too; both are excluded the same
		// way a fuzzy time is.
		appLog.Debug("record skipped, no usable instant", "time", rec.Time, "date", dateTok)
		return skipFuzzy
	}

	disp := DisplayIn(instant, c.loc)
	if disp.Day.Before(refDay) {
		return skipPast
	}

	title := rec.Title
	if title == "" {
		title = "Unknown"
	}
	currency := strings.ToUpper(rec.Country)
	if currency == "" {
		currency = "USD"
	}
	impact := strings.ToLower(rec.Impact)
	if impact == "" {
		impact = "medium"
	}

	if c.minImpact != "all" && impact != c.minImpact {
		return skipFiltered
	}
	if c.currencies != nil {
		if _, ok := c.currencies[currency]; !ok {
			return skipFiltered
		}
	}

	link := rec.URL
	if link == "" {
		link = synthesizeLink(dateTok)
	}

	ev := model.Event{
		InstantUTC:  instant,
		DisplayTime: disp.Time,
		DisplayDate: disp.Date,
		DisplayDay:  disp.Day,
		UTCTime:     disp.UTC,
		Currency:    currency,
		Impact:      impact,
		Title:       title,
		Link:        link,
	}

	if disp.Day.Equal(refDay) {
		ev.Bucket = model.BucketToday
		out.Today = append(out.Today, ev)
	} else {
		ev.Bucket = model.BucketUpcoming
		out.Upcoming = append(out.Upcoming, ev)
	}
	return kept
}

// synthesizeLink builds a deterministic per-day calendar link from an
// MM-DD-YYYY token, e.g. 01-15-2025 -> .../calendar.php?day=jan15.2025.
// A token that does not split into three numeric-month parts falls back to
// the full calendar page; date parsing upstream should make that
// unreachable.
func synthesizeLink(dateTok string) string {
	parts := strings.Split(dateTok, "-")
	if len(parts) != 3 {
		return FullCalendarURL
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return FullCalendarURL
	}
	abbr := strings.ToLower(time.Month(month).String()[:3])
	return fmt.Sprintf("https://www.forexfactory.com/calendar.php?day=%s%s.%s", abbr, parts[1], parts[2])
}
