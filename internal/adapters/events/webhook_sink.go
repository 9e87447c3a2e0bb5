package events

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vtorprice/exchange-api/internal/core/usecase"
)

const defaultWebhookTimeout = 10 * time.Second

// WebhookSink forwards bus events to an external HTTP endpoint. Each request
// is signed with HMAC-SHA256 so the receiver can verify authenticity. The
// sink makes a single attempt per event; a failed delivery is returned to the
// bus, which logs and drops it.
type WebhookSink struct {
	url    string
	secret []byte
	client *http.Client
}

// NewWebhookSink returns a sink that POSTs events to url and signs them with
// secret. A zero or negative timeout falls back to 10 seconds.
func NewWebhookSink(url, secret string, timeout time.Duration) *WebhookSink {
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	return &WebhookSink{
		url:    url,
		secret: []byte(secret),
		client: &http.Client{Timeout: timeout},
	}
}

type webhookEnvelope struct {
	Name       string        `json:"name"`
	OccurredAt time.Time     `json:"occurred_at"`
	Payload    usecase.Event `json:"payload"`
}

// Handle marshals the event into an envelope, signs the body, and POSTs it.
// Headers on every request:
//
//	Content-Type:        application/json
//	X-Exchange-Event:    <event name>
//	X-Hub-Signature-256: sha256=<hex-encoded HMAC-SHA256>
func (s *WebhookSink) Handle(ctx context.Context, event usecase.Event) error {
	payload, err := json.Marshal(webhookEnvelope{
		Name:       event.EventName(),
		OccurredAt: time.Now().UTC(),
		Payload:    event,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Exchange-Event", event.EventName())
	req.Header.Set("X-Hub-Signature-256", "sha256="+s.sign(payload))

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func (s *WebhookSink) sign(payload []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
