// Package api is the HTTP client for the remote backend: it submits finished
// sessions and fetches prior-performance data. Transport concerns live here;
// the session model never talks to the network.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/workout"
)

// Client sends data to the backend over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the backend.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SubmitSession sends a finished session payload. A new session POSTs to the
// sessions collection; an edit PUTs to the session being revised. Retries up
// to 3 times with exponential backoff on failure.
func (c *Client) SubmitSession(sub *workout.Submission, editSessionID string) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshaling submission: %w", err)
	}

	method := http.MethodPost
	endpoint := c.serverURL + "/api/v1/sessions"
	if editSessionID != "" {
		method = http.MethodPut
		endpoint += "/" + url.PathEscape(editSessionID)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequest(method, endpoint, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
			return nil
		}
		lastErr = fmt.Errorf("submission failed (status %d): %s", resp.StatusCode, body)
	}

	return fmt.Errorf("after 3 attempts: %w", lastErr)
}

// FetchPreviousPerformance retrieves the last logged sets for the given
// exercise names. The response maps lower-cased names to set lists; a null
// entry means the server has nothing for that exercise.
func (c *Client) FetchPreviousPerformance(names []string) (map[string]*workout.PreviousPerformance, error) {
	if len(names) == 0 {
		return map[string]*workout.PreviousPerformance{}, nil
	}

	endpoint := c.serverURL + "/api/v1/previous?exercises=" + url.QueryEscape(strings.Join(names, ","))
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching previous performance: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("previous performance request failed (status %d): %s", resp.StatusCode, body)
	}

	var entries map[string]*workout.PreviousPerformance
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decoding previous performance: %w", err)
	}
	return entries, nil
}
