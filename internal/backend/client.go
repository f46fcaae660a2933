package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"jornada-tracker/internal/config"
	"jornada-tracker/internal/errors"
	"jornada-tracker/internal/logging"
)

// Client talks to the production REST backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// response is a fully read backend reply.
type response struct {
	StatusCode int
	Body       []byte
}

func (r *response) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// NewClient creates a client for the configured backend.
func NewClient(cfg *config.Config, logger *log.Logger) *Client {
	return NewClientWithHTTP(cfg.Backend.BaseURL, &http.Client{Timeout: cfg.Backend.RequestTimeout}, logger)
}

// NewClientWithHTTP creates a client that sends requests through hc.
func NewClientWithHTTP(baseURL string, hc *http.Client, logger *log.Logger) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		logger:  logging.OrDiscard(logger),
	}
}

// call sends one request and reads the whole body. A request that gets no
// response at all is reported as a transport error.
func (c *Client) call(ctx context.Context, method, endpoint string, query url.Values, body interface{}) (*response, error) {
	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyJSON, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyJSON)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewTimeoutError(method+" "+endpoint, time.Since(start).Round(time.Millisecond))
		}
		c.logger.Warn("backend unreachable", "method", method, "endpoint", endpoint, "err", err)
		return nil, errors.NewTransportError(method+" "+endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransportError(method+" "+endpoint, err)
	}

	c.logger.Debug("backend request", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "elapsed", time.Since(start))
	return &response{StatusCode: resp.StatusCode, Body: respBody}, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) (*response, error) {
	return c.call(ctx, http.MethodGet, endpoint, query, nil)
}

func unmarshalBody(resp *response, target interface{}) error {
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal(resp.Body, target); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func statusError(resp *response) error {
	return fmt.Errorf("backend answered %d", resp.StatusCode)
}
