package livetiming

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the external timing data service. It performs no local
// validation of year/event/session combinations; a combination without data
// simply comes back as ErrSessionUnavailable.
type Client struct {
	httpClient *http.Client
	apiHost    string
}

// NewClient creates a timing API client.
func NewClient(apiHost string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiHost: apiHost,
	}
}

func (c *Client) doRequest(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.apiHost+path, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "apexgazer/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrSessionUnavailable
	case http.StatusTooManyRequests:
		resp.Body.Close()
		return nil, ErrRateLimited
	default:
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("timing api: status=%d body=%s", resp.StatusCode, string(body))
	}
}

// GetSession resolves the session for a year/event/session-type combination.
func (c *Client) GetSession(ctx context.Context, year int, event, sessionType string) (*SessionInfo, error) {
	q := url.Values{}
	q.Set("year", fmt.Sprintf("%d", year))
	q.Set("event", event)
	q.Set("session", sessionType)

	resp, err := c.doRequest(ctx, "/v1/sessions?"+q.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var info SessionInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if info.SessionKey == "" {
		return nil, ErrSessionUnavailable
	}

	return &info, nil
}

// ListLaps downloads the completed laps of a session.
func (c *Client) ListLaps(ctx context.Context, sessionKey string) ([]LapData, error) {
	resp, err := c.doRequest(ctx, fmt.Sprintf("/v1/sessions/%s/laps", url.PathEscape(sessionKey)))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var laps []LapData
	if err := json.NewDecoder(resp.Body).Decode(&laps); err != nil {
		return nil, fmt.Errorf("decode laps: %w", err)
	}

	return laps, nil
}

// GetLapTelemetry downloads the per-sample telemetry of one lap.
func (c *Client) GetLapTelemetry(ctx context.Context, sessionKey, driver string, lapNumber int) ([]SampleData, error) {
	path := fmt.Sprintf("/v1/sessions/%s/laps/%s/%d/telemetry",
		url.PathEscape(sessionKey), url.PathEscape(driver), lapNumber)

	resp, err := c.doRequest(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var samples []SampleData
	if err := json.NewDecoder(resp.Body).Decode(&samples); err != nil {
		return nil, fmt.Errorf("decode telemetry: %w", err)
	}
	if len(samples) == 0 {
		return nil, ErrNoTelemetry
	}

	return samples, nil
}

// Sentinel errors
var (
	ErrSessionUnavailable = fmt.Errorf("session unavailable")
	ErrRateLimited        = fmt.Errorf("rate limited")
	ErrNoTelemetry        = fmt.Errorf("no telemetry for lap")
)
