// Package notify posts rendered embeds to a Discord-style webhook.
// Delivery is best effort: failures are logged with full context and never
// retried, and nothing here propagates past the pipeline boundary.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fxnotify/internal/config"
	appLog "fxnotify/internal/log"
	"fxnotify/internal/metrics"
	"fxnotify/internal/model"
)

// deliveryTimeout bounds the webhook POST independently of the feed fetch
// timeout.
const deliveryTimeout = 10 * time.Second

// payload is the webhook transport shape: a display name plus one embed.
type payload struct {
	Username string        `json:"username"`
	Embeds   []model.Embed `json:"embeds"`
}

// Notifier delivers rendered messages to a single webhook URL.
type Notifier struct {
	webhookURL string
	username   string
	client     *http.Client
}

// New creates a Notifier from the process configuration.
func New(cfg *config.Config) *Notifier {
	return &Notifier{
		webhookURL: cfg.WebhookURL,
		username:   cfg.Username,
		client:     &http.Client{Timeout: deliveryTimeout},
	}
}

// Deliver posts the embed. It returns whether a message was actually sent;
// an embed with no fields is a logged no-op. Errors are reported for the
// run summary but callers never retry on them.
func (n *Notifier) Deliver(ctx context.Context, embed model.Embed) (bool, error) {
	if len(embed.Fields) == 0 {
		appLog.Info("no embed fields, skipping webhook post")
		metrics.Deliveries.WithLabelValues("skipped").Inc()
		return false, nil
	}

	body, err := json.Marshal(payload{Username: n.username, Embeds: []model.Embed{embed}})
	if err != nil {
		metrics.Deliveries.WithLabelValues("failed").Inc()
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		metrics.Deliveries.WithLabelValues("failed").Inc()
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		appLog.Error("webhook post failed", err)
		metrics.Deliveries.WithLabelValues("failed").Inc()
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		appLog.Info("webhook delivered", "fields", len(embed.Fields))
		metrics.Deliveries.WithLabelValues("ok").Inc()
		return true, nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	err = fmt.Errorf("webhook rejected: status %d", resp.StatusCode)
	appLog.Error("webhook delivery failed", err,
		"status", resp.StatusCode,
		"response", string(respBody),
		"payload", string(body),
	)
	metrics.Deliveries.WithLabelValues("failed").Inc()
	return false, err
}
