// Package render turns classified event buckets into the webhook embed.
// Rendering is deterministic: identical buckets, reference time and
// configuration produce a byte-identical embed.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"fxnotify/internal/config"
	"fxnotify/internal/event"
	appLog "fxnotify/internal/log"
	"fxnotify/internal/model"
)

// linesPerField keeps each today-section field inside the transport's
// per-field character limit.
const linesPerField = 5

// continuationName renders as an invisible field header so a paginated
// section reads as one block.
const continuationName = "​"

const (
	todayPlaceholder    = "No high-impact news found for today. 😌"
	upcomingPlaceholder = "Clear ahead—strategize! 🌤️"
	embedDescription    = "Filtered weekly deets—stay sharp! 📈"
)

// Renderer builds embeds from classified buckets.
type Renderer struct {
	cfg *config.Config
	loc *time.Location
}

// New creates a Renderer for the given configuration and display location.
func New(cfg *config.Config, loc *time.Location) *Renderer {
	return &Renderer{cfg: cfg, loc: loc}
}

// Render assembles the embed. When both buckets are empty the embed carries
// zero fields, which the delivery adapter treats as "nothing to send".
func (r *Renderer) Render(cls model.Classified, now time.Time) model.Embed {
	nowLocal := now.In(r.loc)
	tzAbbrev := nowLocal.Format("MST")
	tzOffset := "UTC" + nowLocal.Format("-07:00")

	todayStr := cls.TodayStr
	if todayStr == "" {
		todayStr = nowLocal.Format("2006-01-02")
	}

	currenciesDisplay := "All"
	if list := r.cfg.CurrencyList(); len(list) > 0 {
		currenciesDisplay = strings.Join(list, ", ")
	}

	embed := model.Embed{
		Title:       fmt.Sprintf("🚨 %s - %s (%s)", r.cfg.EmbedTitle, todayStr, tzAbbrev),
		Description: embedDescription,
		Color:       r.cfg.ColorValue(),
		Footer: model.EmbedFooter{
			Text: fmt.Sprintf("%s | Grouped by %s Day (%s) | Min Impact: %s | Lines: %d | Currencies: %s",
				r.cfg.ServerName, tzAbbrev, tzOffset,
				strings.ToUpper(r.cfg.MinImpact), r.cfg.MaxUpcoming, currenciesDisplay),
		},
	}

	if len(cls.Today) == 0 && len(cls.Upcoming) == 0 {
		return embed
	}

	embed.Fields = append(embed.Fields, r.todayFields(cls.Today)...)
	embed.Fields = append(embed.Fields, r.upcomingField(cls.Upcoming))

	for _, f := range embed.Fields {
		appLog.Debug("embed field size", "name", f.Name, "chars", len(f.Value))
	}
	return embed
}

// todayFields sorts today's events by display time and paginates them into
// fixed-size fields. The first field carries the header with the total
// count; continuations use an invisible name.
func (r *Renderer) todayFields(today []model.Event) []model.EmbedField {
	header := fmt.Sprintf("📊 Today's News (%d total)", len(today))
	if len(today) == 0 {
		return []model.EmbedField{{Name: header, Value: todayPlaceholder}}
	}

	sorted := make([]model.Event, len(today))
	copy(sorted, today)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DisplayTime < sorted[j].DisplayTime
	})

	var fields []model.EmbedField
	for start := 0; start < len(sorted); start += linesPerField {
		end := start + linesPerField
		if end > len(sorted) {
			end = len(sorted)
		}
		var b strings.Builder
		for _, ev := range sorted[start:end] {
			b.WriteString(r.eventLine(ev))
		}
		name := header
		if start > 0 {
			name = continuationName
		}
		fields = append(fields, model.EmbedField{Name: name, Value: b.String()})
	}
	return fields
}

// upcomingField sorts upcoming events by (display day, display time) and
// renders at most MaxUpcoming of the soonest, with a "+N more" marker when
// events are cut.
func (r *Renderer) upcomingField(upcoming []model.Event) model.EmbedField {
	name := fmt.Sprintf("🔮 Upcoming (%d total)", len(upcoming))
	if len(upcoming) == 0 {
		return model.EmbedField{Name: name, Value: upcomingPlaceholder}
	}

	sorted := make([]model.Event, len(upcoming))
	copy(sorted, upcoming)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].DisplayDay.Equal(sorted[j].DisplayDay) {
			return sorted[i].DisplayDay.Before(sorted[j].DisplayDay)
		}
		return sorted[i].DisplayTime < sorted[j].DisplayTime
	})

	shown := sorted
	if len(shown) > r.cfg.MaxUpcoming {
		shown = shown[:r.cfg.MaxUpcoming]
	}

	var b strings.Builder
	for _, ev := range shown {
		b.WriteString(r.eventLine(ev))
	}
	if remaining := len(sorted) - len(shown); remaining > 0 {
		fmt.Fprintf(&b, "\n**+%d more!** [Full](%s)", remaining, event.FullCalendarURL)
	}
	return model.EmbedField{Name: name, Value: b.String()}
}

// eventLine renders one event as a single bullet line.
func (r *Renderer) eventLine(ev model.Event) string {
	emoji := "🟢"
	switch ev.Impact {
	case "high":
		emoji = "🔴"
	case "medium":
		emoji = "🟡"
	}
	return fmt.Sprintf("• %s | %s | %s %s %s: [%s](%s)\n",
		ev.DisplayDate, ev.DisplayTime, ev.UTCTime, emoji, ev.Currency,
		truncate(ev.Title, r.cfg.MaxTitleLength), ev.Link)
}

// truncate caps a title at max characters, appending an ellipsis marker
// when anything was cut. Counts runes so multi-byte titles are not split.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
