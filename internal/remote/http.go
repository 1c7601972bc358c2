// ABOUTME: HTTP implementation of the remote Service over a PostgREST-style table API.
// ABOUTME: Connectivity and 5xx failures wrap ErrUnreachable for the sync core.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the remote service's REST endpoint. Tables live under
// /rest/v1/<table>; equality filters use the ?col=eq.value convention.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a remote client. A nil httpClient gets a default with
// a 30 second timeout.
func NewClient(baseURL, apiKey string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    httpClient,
		log:     log,
	}
}

// Select returns all rows matching the filter.
func (c *Client) Select(ctx context.Context, table string, filter Filter) ([]Record, error) {
	endpoint := c.tableURL(table, filter)

	body, err := c.do(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode %s rows: %w", table, err)
	}
	return records, nil
}

// Insert creates a row.
func (c *Client) Insert(ctx context.Context, table string, record Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s row: %w", table, err)
	}
	_, err = c.do(ctx, http.MethodPost, c.tableURL(table, Filter{}), payload, nil)
	return err
}

// Upsert creates or replaces a row keyed on conflictKey.
func (c *Client) Upsert(ctx context.Context, table string, record Record, conflictKey string) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s row: %w", table, err)
	}

	endpoint := c.tableURL(table, Filter{})
	endpoint += "?on_conflict=" + url.QueryEscape(conflictKey)
	headers := map[string]string{"Prefer": "resolution=merge-duplicates"}

	_, err = c.do(ctx, http.MethodPost, endpoint, payload, headers)
	return err
}

// Delete removes all rows matching the filter.
func (c *Client) Delete(ctx context.Context, table string, filter Filter) error {
	if filter.Column == "" {
		return fmt.Errorf("delete %s: refusing unfiltered delete", table)
	}
	_, err := c.do(ctx, http.MethodDelete, c.tableURL(table, filter), nil, nil)
	return err
}

// CurrentUser returns the authenticated user's identifier.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil, nil)
	if err != nil {
		return "", err
	}

	var user struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &user); err != nil {
		return "", fmt.Errorf("decode user: %w", err)
	}
	if user.ID == "" {
		return "", fmt.Errorf("no authenticated user")
	}
	return user.ID, nil
}

func (c *Client) tableURL(table string, filter Filter) string {
	endpoint := c.baseURL + "/rest/v1/" + url.PathEscape(table)
	if filter.Column != "" {
		endpoint += fmt.Sprintf("?%s=eq.%s",
			url.QueryEscape(filter.Column),
			url.QueryEscape(fmt.Sprintf("%v", filter.Value)))
	}
	return endpoint
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte, headers map[string]string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("url", endpoint).Msg("request failed")
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("url", endpoint).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("remote request")

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: server returned %d", ErrUnreachable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("remote error %d: %s", resp.StatusCode, body)
	}

	return body, nil
}
