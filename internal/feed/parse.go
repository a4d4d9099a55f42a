package feed

import (
	"encoding/xml"
	"errors"
	"strings"

	appLog "fxnotify/internal/log"
	"fxnotify/internal/metrics"
	"fxnotify/internal/model"
)

// feedDocument mirrors the calendar XML: a root element wrapping repeated
// <event> children. The root name is deliberately unpinned; only the events
// matter, matching how lenient feed consumers read this document.
type feedDocument struct {
	XMLName xml.Name
	Events  []feedEvent `xml:"event"`
}

// feedEvent is one <event> element. Every child is optional in practice.
type feedEvent struct {
	Title   string `xml:"title"`
	Country string `xml:"country"`
	Date    string `xml:"date"`
	Time    string `xml:"time"`
	Impact  string `xml:"impact"`
	URL     string `xml:"url"`
}

// Parse decodes a feed payload into raw event records in feed order.
// A document that does not decode at all is a terminal failure; individual
// missing fields are tolerated and handled downstream.
func Parse(body []byte) ([]model.RawEvent, error) {
	if len(body) == 0 {
		return nil, errors.New("empty feed body")
	}

	var doc feedDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, err
	}

	records := make([]model.RawEvent, 0, len(doc.Events))
	for _, ev := range doc.Events {
		records = append(records, model.RawEvent{
			Title:   strings.TrimSpace(ev.Title),
			Country: strings.TrimSpace(ev.Country),
			Date:    strings.TrimSpace(ev.Date),
			Time:    strings.TrimSpace(ev.Time),
			Impact:  strings.TrimSpace(ev.Impact),
			URL:     strings.TrimSpace(ev.URL),
		})
	}

	metrics.RecordsParsed.Add(float64(len(records)))
	appLog.Info("feed parse completed", "event_count", len(records))
	if len(records) > 0 {
		appLog.Debug("feed sample record",
			"title", records[0].Title,
			"date", records[0].Date,
			"time", records[0].Time,
			"impact", records[0].Impact,
		)
	}
	return records, nil
}
