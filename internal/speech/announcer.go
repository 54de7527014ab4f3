// Package speech posts spoken announcements to the text-to-speech service.
// The service is a black-box notification channel: announcements are best
// effort and never affect the request outcome.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Announcer sends announcement text to the TTS service.
type Announcer struct {
	url    string
	voice  string
	client *http.Client
}

// NewAnnouncer creates an announcer for the given service URL. An empty URL
// returns nil, which disables announcements; all methods are nil-safe.
func NewAnnouncer(url, voice string, timeout time.Duration) *Announcer {
	if url == "" {
		return nil
	}
	return &Announcer{
		url:    url,
		voice:  voice,
		client: &http.Client{Timeout: timeout},
	}
}

// Announce posts the text to the speech service. Failures are logged and
// swallowed; the caller has already answered the operator by the time the
// announcement plays.
func (a *Announcer) Announce(ctx context.Context, text string) {
	if a == nil {
		return
	}

	payload, err := json.Marshal(map[string]string{
		"text":  text,
		"voice": a.voice,
	})
	if err != nil {
		slog.Warn("announcement payload", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url+"/speak", bytes.NewReader(payload))
	if err != nil {
		slog.Warn("announcement request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		slog.Warn("announcement failed", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("announcement failed",
			"error", fmt.Sprintf("speech response error code=%d status=%s", resp.StatusCode, resp.Status))
	}
}
