// Package app wires the fetch -> classify -> render -> deliver pipeline.
// A run never returns an error: every failure inside the pipeline degrades
// to a logged, counted outcome so the scheduler always sees a normal return.
package app

import (
	"context"
	"sync"
	"time"

	"fxnotify/internal/config"
	"fxnotify/internal/event"
	"fxnotify/internal/feed"
	appLog "fxnotify/internal/log"
	"fxnotify/internal/metrics"
	"fxnotify/internal/model"
	"fxnotify/internal/notify"
	"fxnotify/internal/render"
)

// Pipeline holds the immutable collaborators for one notifier process.
// Each run builds and discards its own data; only the last-run summary is
// retained, for the status API.
type Pipeline struct {
	fetcher    *feed.Fetcher
	classifier *event.Classifier
	renderer   *render.Renderer
	notifier   *notify.Notifier

	mu      sync.RWMutex
	lastRun *model.RunSummary
}

// New wires a Pipeline from the process configuration and the resolved
// display location.
func New(cfg *config.Config, loc *time.Location) *Pipeline {
	return &Pipeline{
		fetcher:    feed.FromConfig(cfg),
		classifier: event.NewClassifier(cfg, loc),
		renderer:   render.New(cfg, loc),
		notifier:   notify.New(cfg),
	}
}

// RunOnce executes one full pipeline pass using the current wall clock.
func (p *Pipeline) RunOnce(ctx context.Context) {
	p.run(ctx, time.Now())
}

func (p *Pipeline) run(ctx context.Context, now time.Time) {
	summary := model.RunSummary{StartedAt: now}

	records, err := p.fetcher.Fetch(ctx)
	if err != nil {
		// Degraded run: classify an empty batch and let delivery no-op.
		appLog.Error("fetch produced no usable feed", err)
		summary.Error = err.Error()
		records = nil
	}
	summary.FeedCount = len(records)

	cls := p.classifier.Classify(records, now)
	summary.Counts = cls.Counts
	summary.Today = len(cls.Today)
	summary.Upcoming = len(cls.Upcoming)

	embed := p.renderer.Render(cls, now)

	sent, deliverErr := p.notifier.Deliver(ctx, embed)
	summary.Delivered = sent
	if deliverErr != nil && summary.Error == "" {
		summary.Error = deliverErr.Error()
	}

	summary.FinishedAt = time.Now()
	metrics.Runs.Inc()

	p.mu.Lock()
	p.lastRun = &summary
	p.mu.Unlock()

	appLog.Info("pipeline run finished",
		"today", summary.Today,
		"upcoming", summary.Upcoming,
		"delivered", summary.Delivered,
		"duration", summary.FinishedAt.Sub(summary.StartedAt).String(),
	)
}

// LastRun returns the summary of the most recent run, or nil before the
// first run completes.
func (p *Pipeline) LastRun() *model.RunSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastRun
}
