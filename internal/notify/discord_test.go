package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxnotify/internal/config"
	"fxnotify/internal/model"
)

func testNotifier(webhookURL string) *Notifier {
	cfg := config.DefaultConfig()
	cfg.WebhookURL = webhookURL
	cfg.Normalize()
	return New(cfg)
}

func testEmbed() model.Embed {
	return model.Embed{
		Title: "🚨 Forex Alerts - 2025-01-15 (WIB)",
		Color: 0xFF4500,
		Fields: []model.EmbedField{
			{Name: "📊 Today's News (1 total)", Value: "• line\n"},
		},
		Footer: model.EmbedFooter{Text: "Forex News"},
	}
}

func TestDeliverSuccess(t *testing.T) {
	var body atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		body.Store(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sent, err := testNotifier(srv.URL).Deliver(context.Background(), testEmbed())
	require.NoError(t, err)
	assert.True(t, sent)

	var got struct {
		Username string        `json:"username"`
		Embeds   []model.Embed `json:"embeds"`
	}
	require.NoError(t, json.Unmarshal(body.Load().([]byte), &got))
	assert.Equal(t, "Forex Notifier", got.Username)
	require.Len(t, got.Embeds, 1)
	assert.Equal(t, testEmbed().Title, got.Embeds[0].Title)
}

func TestDeliverRejectedNoRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"message":"invalid payload"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	sent, err := testNotifier(srv.URL).Deliver(context.Background(), testEmbed())
	assert.Error(t, err)
	assert.False(t, sent)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDeliverSkipsEmptyEmbed(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	sent, err := testNotifier(srv.URL).Deliver(context.Background(), model.Embed{Title: "empty"})
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Equal(t, int32(0), calls.Load())
}

func TestDeliverTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	sent, err := testNotifier(url).Deliver(context.Background(), testEmbed())
	assert.Error(t, err)
	assert.False(t, sent)
}
