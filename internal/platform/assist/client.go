// Package assist calls the external text-assist endpoint that rewrites or
// summarizes note text. Failures never surface to the editing session; the
// caller gets a static fallback string instead.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// FallbackText substitutes for the assist response on any failure.
const FallbackText = "Assist is unavailable right now. Please continue documenting manually."

// Known action kinds. The endpoint may accept others; these are the ones the
// editor exposes.
const (
	ActionSummarize = "summarize"
	ActionExpand    = "expand"
	ActionRephrase  = "rephrase"
)

type Client struct {
	endpoint string
	client   *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type request struct {
	Text   string `json:"text"`
	Action string `json:"action"`
}

type response struct {
	Text string `json:"text"`
}

// Suggest sends the text to the assist endpoint and returns the suggested
// replacement.
func (c *Client) Suggest(ctx context.Context, text, action string) (string, error) {
	if c.endpoint == "" {
		return "", fmt.Errorf("assist endpoint not configured")
	}

	body, err := json.Marshal(request{Text: text, Action: action})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("assist endpoint returned %d", resp.StatusCode)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Text, nil
}

// SuggestOrFallback wraps Suggest with the editor's failure policy: any
// error is logged and swallowed, and the static fallback text is returned.
// The second return is true when the fallback was used.
func (c *Client) SuggestOrFallback(ctx context.Context, text, action string) (string, bool) {
	out, err := c.Suggest(ctx, text, action)
	if err != nil {
		log.Warn().Err(err).Str("action", action).Msg("assist call failed, using fallback")
		return FallbackText, true
	}
	return out, false
}
