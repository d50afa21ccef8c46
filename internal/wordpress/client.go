// Package wordpress implements the paginated client for the source
// blog's REST API.
package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// RawRecord is one undecoded post record as returned by the source
// API. Field values are whatever encoding/json produced: strings,
// float64 numbers, nested maps and slices.
type RawRecord map[string]any

// Client interfaces with the source blog's posts endpoint.
type Client struct {
	endpoint   string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient creates a client for {site}/posts/ using HTTP basic auth.
func NewClient(site, username, password string) *Client {
	return &Client{
		endpoint: strings.TrimRight(site, "/") + "/posts/",
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// FetchPage requests one page of posts. The response body may be a
// single post object or an array of post objects; both decode into a
// slice of raw records. A non-success status raises a *TransportError;
// each page is a single attempt, retrying is the caller's call.
func (c *Client) FetchPage(ctx context.Context, page int) ([]RawRecord, error) {
	if c.endpoint == "/posts/" {
		return nil, ErrMissingCredentials
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{StatusCode: resp.StatusCode, Page: page}
	}

	var body json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return decodeRecords(body)
}

// decodeRecords accepts either a JSON array of objects or a single
// object and returns the records it contains.
func decodeRecords(body json.RawMessage) ([]RawRecord, error) {
	trimmed := strings.TrimLeft(string(body), " \t\r\n")
	if strings.HasPrefix(trimmed, "[") {
		var records []RawRecord
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, fmt.Errorf("failed to decode post list: %w", err)
		}
		return records, nil
	}

	var record RawRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("failed to decode post: %w", err)
	}
	return []RawRecord{record}, nil
}

// Endpoint returns the posts endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}
