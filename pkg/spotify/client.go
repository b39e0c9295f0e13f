// Package spotify is a minimal Spotify Web API client covering the
// library, search, playlist, and recommendation surfaces the assistant's
// tools need. Responses are projected into simplified records rather than
// exposed raw.
package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	spotifyauth "golang.org/x/oauth2/spotify"
	"golang.org/x/time/rate"

	"github.com/myspotipal/spotipal/pkg/logger"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"

	// Largest page size the API accepts for library endpoints.
	maxPageSize = 50

	// Library listings are capped so a huge collection cannot flood the
	// model's context window.
	libraryCap = 100

	defaultRequestsPerSecond = 10
)

// Credentials selects how the client authenticates. A refresh token (with
// client id/secret) is exchanged and auto-renewed via oauth2; a bare access
// token is used as-is until it expires.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	AccessToken  string
}

type Client struct {
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithHTTPClient replaces the underlying transport. Token refresh still
// flows through it.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

func NewClient(ctx context.Context, creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		limiter: rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.httpc != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpc)
	}

	switch {
	case creds.RefreshToken != "" && creds.ClientID != "":
		conf := &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Endpoint:     spotifyauth.Endpoint,
		}
		c.httpc = conf.Client(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken})
	case creds.AccessToken != "":
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.AccessToken})
		c.httpc = oauth2.NewClient(ctx, src)
	default:
		if c.httpc == nil {
			c.httpc = http.DefaultClient
		}
	}

	return c
}

// APIError is a non-2xx response from the Web API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("spotify API error (status=%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("spotify API error (status=%d)", e.StatusCode)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return c.getURL(ctx, u, out)
}

// getURL fetches an absolute URL. Pagination follows the API's `next`
// links, which are absolute, so this is the common path.
func (c *Client) getURL(ctx context.Context, u string, out any) error {
	return c.do(ctx, http.MethodGet, u, nil, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, c.baseURL+"/"+path, body, out)
}

func (c *Client) do(ctx context.Context, method, u string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("spotify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var wrapped struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(raw, &wrapped) == nil {
			apiErr.Message = wrapped.Error.Message
		}
		logger.WarnCF("spotify", "API request failed", map[string]any{
			"method": method,
			"url":    u,
			"status": resp.StatusCode,
		})
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding spotify response: %w", err)
	}
	return nil
}
