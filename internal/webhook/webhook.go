// Package webhook relays mention events to the n8n pipeline that produces
// the bot's full replies.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Payload is the mention event shape n8n consumes.
type Payload struct {
	DiscordUserID   string `json:"discord_user_id"`
	DiscordUsername string `json:"discord_username"`
	ChannelID       string `json:"channel_id"`
	GuildID         string `json:"guild_id,omitempty"`
	MessageID       string `json:"message_id"`
	Content         string `json:"content"`
	CreatedAt       string `json:"created_at"`
}

type Relay struct {
	url    string
	secret string
	client *http.Client

	warnMissingSecret sync.Once
	warnInsecureURL   sync.Once
}

func NewRelay(url, secret string) *Relay {
	return &Relay{
		url:    url,
		secret: secret,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether the relay may send. A configured secret is never
// attached to a non-https endpoint.
func (r *Relay) Enabled() bool {
	if r.url == "" {
		return false
	}
	if r.secret != "" && !strings.HasPrefix(strings.ToLower(r.url), "https://") {
		r.warnInsecureURL.Do(func() {
			slog.Warn("N8N_WEBHOOK_URL is not https; the webhook secret may be exposed")
		})
		return false
	}
	return true
}

func (r *Relay) headers() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if r.secret == "" {
		r.warnMissingSecret.Do(func() {
			slog.Warn("N8N_WEBHOOK_SECRET is not set; requests may be rejected by n8n")
		})
		return h
	}
	h.Set("X-Webhook-Secret", r.secret)
	return h
}

// Send posts the payload. Non-2xx responses are errors.
func (r *Relay) Send(ctx context.Context, payload Payload) error {
	if !r.Enabled() {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header = r.headers()

	res, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", res.StatusCode)
	}
	return nil
}
