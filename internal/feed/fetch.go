// Package feed fetches and decodes the weekly economic-calendar XML feed.
//
// Failure taxonomy (callers decide what to do; this package only reports):
//   - transient: transport errors and HTTP 429, retried with exponential
//     backoff up to the attempt budget
//   - terminal: any other non-200 status or an undecodable document, never
//     retried
//
// Either way the pipeline degrades to an empty record set; fetch problems
// must never take the process down.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"fxnotify/internal/config"
	appLog "fxnotify/internal/log"
	"fxnotify/internal/metrics"
	"fxnotify/internal/model"
)

// ErrStatus marks a terminal non-200/non-429 response.
var ErrStatus = errors.New("feed: unexpected status")

// ErrRateLimited marks an HTTP 429; retryable.
var ErrRateLimited = errors.New("feed: rate limited")

// ErrMalformed marks a document that fetched fine but did not decode.
var ErrMalformed = errors.New("feed: malformed document")

// ErrExhausted marks a retry budget spent on transient failures.
var ErrExhausted = errors.New("feed: retries exhausted")

// RetryPolicy bounds the fetch retry loop. Injectable so tests can run with
// zero intervals instead of a real clock.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	Multiplier      float64
}

// DefaultPolicy returns the production policy: waits of 10s, 20s, 40s, ...
// between attempts.
func DefaultPolicy(maxAttempts int) RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	return RetryPolicy{
		MaxAttempts:     maxAttempts,
		InitialInterval: 10 * time.Second,
		Multiplier:      2.0,
	}
}

func (p RetryPolicy) backoff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.Multiplier = p.Multiplier
	exp.RandomizationFactor = 0
	exp.MaxInterval = 24 * time.Hour
	exp.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.BackOff(exp), ctx)
	return backoff.WithMaxRetries(b, uint64(p.MaxAttempts-1))
}

// Options configures a Fetcher.
type Options struct {
	URL           string
	UserAgent     string
	PrefetchDelay time.Duration
	Timeout       time.Duration
	Policy        RetryPolicy
}

// Fetcher retrieves the calendar feed with bounded retry.
type Fetcher struct {
	opts   Options
	client *http.Client
}

// New creates a Fetcher from explicit options.
func New(opts Options) *Fetcher {
	if opts.Policy.MaxAttempts <= 0 {
		opts.Policy = DefaultPolicy(0)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Fetcher{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
	}
}

// FromConfig creates a Fetcher wired from the process configuration.
func FromConfig(cfg *config.Config) *Fetcher {
	return New(Options{
		URL:           cfg.FeedURL,
		UserAgent:     cfg.UserAgent,
		PrefetchDelay: cfg.PrefetchDelay(),
		Timeout:       cfg.HTTPTimeout(),
		Policy:        DefaultPolicy(cfg.MaxRetries),
	})
}

// Fetch retrieves and decodes the feed. On any failure it returns a nil
// slice and an error classifying what went wrong; callers treat that as an
// empty result set.
func (f *Fetcher) Fetch(ctx context.Context) ([]model.RawEvent, error) {
	if f.opts.PrefetchDelay > 0 {
		appLog.Info("pre-fetch idle wait", "delay", f.opts.PrefetchDelay.String())
		time.Sleep(f.opts.PrefetchDelay)
	}

	var records []model.RawEvent
	attempt := 0

	operation := func() error {
		attempt++
		metrics.FetchAttempts.Inc()
		appLog.Info("feed fetch", "attempt", attempt, "max_attempts", f.opts.Policy.MaxAttempts)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.opts.URL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", f.opts.UserAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			// Transport-level failure: retryable.
			appLog.Error("feed fetch transport error", err, "attempt", attempt)
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			body, readErr := io.ReadAll(resp.Body)
			if readErr != nil {
				appLog.Error("feed body read failed", readErr, "attempt", attempt)
				return readErr
			}
			parsed, parseErr := Parse(body)
			if parseErr != nil {
				// A 200 with garbage in it will not get better on retry.
				return backoff.Permanent(fmt.Errorf("%w: %v", ErrMalformed, parseErr))
			}
			records = parsed
			return nil

		case resp.StatusCode == http.StatusTooManyRequests:
			appLog.Info("feed rate limited, backing off", "attempt", attempt)
			return fmt.Errorf("%w (attempt %d)", ErrRateLimited, attempt)

		default:
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
			appLog.Error("feed fetch non-OK status",
				fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode),
				"status", resp.StatusCode, "body", string(snippet))
			return backoff.Permanent(fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode))
		}
	}

	if err := backoff.Retry(operation, f.opts.Policy.backoff(ctx)); err != nil {
		if errors.Is(err, ErrMalformed) || errors.Is(err, ErrStatus) {
			metrics.FetchFailures.WithLabelValues("terminal").Inc()
			return nil, err
		}
		metrics.FetchFailures.WithLabelValues("transient").Inc()
		appLog.Error("feed retries exhausted", err, "attempts", attempt)
		return nil, fmt.Errorf("%w: %v", ErrExhausted, err)
	}

	return records, nil
}
