// Package webhook delivers signed source health notifications.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/use-agent/mediascout/models"
)

// EventStatusChanged fires when a tracked source changes health between checks.
const EventStatusChanged = "source.status_changed"

// SignatureHeader carries "sha256=<hex>" of the body when a secret is set.
const SignatureHeader = "X-Mediascout-Signature"

// Event is the payload sent to webhook endpoints.
type Event struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data"`
}

// NewStatusChanged builds a source.status_changed event for one check.
func NewStatusChanged(check models.SourceCheck) *Event {
	return &Event{
		Type:      EventStatusChanged,
		ID:        uuid.New().String(),
		Timestamp: time.Now().Unix(),
		Data:      check,
	}
}

// Deliver sends a webhook event synchronously.
// The request body is signed with HMAC-SHA256 if secret is non-empty.
func Deliver(ctx context.Context, url, secret string, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mediascout-Webhook/1.0")

	if secret != "" {
		req.Header.Set(SignatureHeader, "sha256="+Sign(secret, body))
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: deliver: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// DefaultRetryDelays is the wait before each attempt: one immediate try,
// then retries after 1s, 5s and 30s.
var DefaultRetryDelays = []time.Duration{0, 1 * time.Second, 5 * time.Second, 30 * time.Second}

// Notifier delivers events to one endpoint in the background.
type Notifier struct {
	URL    string
	Secret string

	// Delays overrides DefaultRetryDelays.
	Delays []time.Duration

	inflight sync.WaitGroup
}

// New returns a Notifier for url, or nil when url is empty. A nil Notifier
// drops every event.
func New(url, secret string) *Notifier {
	if url == "" {
		return nil
	}
	return &Notifier{URL: url, Secret: secret}
}

// Notify delivers event asynchronously with retries.
func (n *Notifier) Notify(event *Event) {
	if n == nil {
		return
	}
	delays := n.Delays
	if delays == nil {
		delays = DefaultRetryDelays
	}
	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		n.deliverWithRetry(event, delays)
	}()
}

// Wait blocks until every queued delivery has succeeded or exhausted its
// retries, or until ctx is done. Short-lived processes call it before exit.
func (n *Notifier) Wait(ctx context.Context) error {
	if n == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		n.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("webhook: deliveries still pending: %w", ctx.Err())
	}
}

func (n *Notifier) deliverWithRetry(event *Event, delays []time.Duration) {
	for attempt, delay := range delays {
		if delay > 0 {
			time.Sleep(delay)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := Deliver(ctx, n.URL, n.Secret, event)
		cancel()
		if err == nil {
			slog.Info("webhook delivered",
				"url", n.URL,
				"event", event.Type,
				"event_id", event.ID,
				"attempt", attempt+1,
			)
			return
		}
		slog.Warn("webhook delivery failed",
			"url", n.URL,
			"event", event.Type,
			"event_id", event.ID,
			"attempt", attempt+1,
			"error", err,
		)
	}
	slog.Error("webhook delivery exhausted all retries",
		"url", n.URL,
		"event", event.Type,
		"event_id", event.ID,
	)
}
