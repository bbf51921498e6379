package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"meldify/pkg/models"
)

// ReportClient delivers export events and heartbeats to a remote collector.
type ReportClient struct {
	baseURL    string
	hostID     string
	httpClient *http.Client
	logger     *slog.Logger
}

// Options tunes the retry behaviour. Zero values use the defaults.
type Options struct {
	HostID       string
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       *slog.Logger
}

// NewReportClient creates an HTTP client with retries.
func NewReportClient(baseURL string, opts Options) *ReportClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil // silence default debug logger
	if opts.RetryMax > 0 {
		retryClient.RetryMax = opts.RetryMax
	}
	if opts.RetryWaitMin > 0 {
		retryClient.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		retryClient.RetryWaitMax = opts.RetryWaitMax
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ReportClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		hostID:     opts.HostID,
		httpClient: retryClient.StandardClient(),
		logger:     logger,
	}
}

// doRequest is the core HTTP request handler with error interception.
func (c *ReportClient) doRequest(ctx context.Context, method, path string, payload interface{}) error {
	url := c.baseURL + path

	var body io.Reader
	if payload != nil {
		jsonBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.hostID != "" {
		req.Header.Set("X-Host-ID", c.hostID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return &StatusError{StatusCode: resp.StatusCode, Path: path}
	}
	return nil
}

// StatusError is returned when the collector answers with an error status.
type StatusError struct {
	StatusCode int
	Path       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("collector returned status %d for %s", e.StatusCode, e.Path)
}

// ReportCompletion sends one export event.
func (c *ReportClient) ReportCompletion(ctx context.Context, ev models.ExportEvent) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/exports/events", ev); err != nil {
		return fmt.Errorf("report export %s: %w", ev.JobID, err)
	}
	c.logger.Debug("export event reported", "job_id", ev.JobID, "status", ev.Status)
	return nil
}

// SendHeartbeat sends one telemetry pulse.
func (c *ReportClient) SendHeartbeat(ctx context.Context, hb models.Heartbeat) error {
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/exports/heartbeat", hb); err != nil {
		return fmt.Errorf("heartbeat: %w", err)
	}
	return nil
}
