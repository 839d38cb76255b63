package ripedb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the RIPE database search endpoint queried when no
// other base URL is configured.
const DefaultBaseURL = "https://rest.db.ripe.net/search"

// Fetcher obtains the raw registry response for a query string. The
// pipeline only depends on this interface; Client is the production
// implementation.
type Fetcher interface {
	Fetch(ctx context.Context, query string) (string, error)
}

// FetchError wraps a transport or API failure. It is fatal to the
// run: no partial output is produced.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Client queries the registry API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Fetch performs a single GET against the search endpoint and returns
// the raw text body.
func (c *Client) Fetch(ctx context.Context, query string) (string, error) {
	u := c.baseURL + "?query-string=" + url.QueryEscape(query)
	log.Debug().Str("url", u).Msg("querying registry")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", &FetchError{URL: u, Err: err}
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &FetchError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: u, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: u, Err: err}
	}
	return string(body), nil
}
