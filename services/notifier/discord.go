package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"cruisescanner/pkg/errors"
)

const discordUsername = "Seascanner Deal Hunter"

// DiscordNotifier sends alerts to a Discord webhook
type DiscordNotifier struct {
	webhookURL string
	username   string
	client     *http.Client
}

// NewDiscord creates a Discord webhook notifier
func NewDiscord(webhookURL string) *DiscordNotifier {
	return &DiscordNotifier{
		webhookURL: webhookURL,
		username:   discordUsername,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Name returns the notifier name
func (d *DiscordNotifier) Name() string {
	return "discord"
}

// Enabled reports that this notifier sends for real
func (d *DiscordNotifier) Enabled() bool {
	return true
}

// Notify posts the message to the webhook as a Discord content payload.
func (d *DiscordNotifier) Notify(ctx context.Context, message string) error {
	payload := map[string]string{
		"content":  message,
		"username": d.username,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.NewNotify("discord", "failed to encode payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return errors.NewNotify("discord", "failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return errors.NewNotify("discord", "webhook request failed", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewNotify("discord", http.StatusText(resp.StatusCode), nil)
	}
	return nil
}
