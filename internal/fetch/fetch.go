// Package fetch resolves the best-available markup for a capture: inline
// markup from the payload when present, otherwise a single network GET of
// the payload URL. Failures are reported through Outcome rather than errors
// so callers cannot forget to check them; retrying is the job scheduler's
// responsibility, not this package's.
package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
)

// DefaultUserAgent identifies capture fetches to origin servers.
const DefaultUserAgent = "SynapseBot/1.0 (https://synapse.local; contact: capture@synapse.local)"

// Outcome reports how markup resolution went. Attempted is true whenever
// content was looked for at all; Succeeded is true only when Content holds
// usable markup. A failed attempt (Attempted && !Succeeded) is what flags a
// capture for retry.
type Outcome struct {
	Content   string
	Attempted bool
	Succeeded bool
}

// Client performs markup resolution. The HTTP client is injected so callers
// own timeout configuration and tests can point at local servers.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) userAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return DefaultUserAgent
}

// Resolve returns the best-available markup for a capture. Inline markup
// wins without any network traffic; with no URL there is nothing to attempt;
// otherwise exactly one GET is made. Transport errors, non-2xx statuses and
// context cancellation all come back as a failed attempt, never as an error.
func (c *Client) Resolve(ctx context.Context, markup, rawURL string) Outcome {
	if markup != "" {
		return Outcome{Content: markup, Attempted: true, Succeeded: true}
	}
	if rawURL == "" {
		return Outcome{}
	}
	body, ok := c.get(ctx, rawURL)
	return Outcome{Content: body, Attempted: true, Succeeded: ok}
}

func (c *Client) get(ctx context.Context, rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", c.userAgent())

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false
	}
	return string(body), true
}
