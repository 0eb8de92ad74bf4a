// Package client talks to a running bridge over loopback HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"assetbridge/internal/api"
)

// ErrUnreachable reports that nothing answered at the bridge address.
var ErrUnreachable = errors.New("bridge unreachable")

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("bridge returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("bridge returned HTTP %d: %s", e.StatusCode, e.Message)
}

// Client provides typed access to the bridge endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for baseURL (for example http://127.0.0.1:8080).
// A non-positive timeout leaves requests bounded only by their context.
func New(baseURL string, timeout time.Duration) *Client {
	httpClient := &http.Client{}
	if timeout > 0 {
		httpClient.Timeout = timeout
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    httpClient,
	}
}

// BaseURL returns the bridge address the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks bridge liveness.
func (c *Client) Ping(ctx context.Context) (*api.PingResponse, error) {
	var resp api.PingResponse
	if err := c.do(ctx, http.MethodGet, "/ping", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves daemon status.
func (c *Client) Status(ctx context.Context) (*api.StatusResponse, error) {
	var resp api.StatusResponse
	if err := c.do(ctx, http.MethodGet, "/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CopyToClipboard asks the bridge to place paths on the clipboard.
func (c *Client) CopyToClipboard(ctx context.Context, paths []string) (*api.BridgeResponse, error) {
	return c.Transfer(ctx, "/copy-to-clipboard", api.TransferRequest{
		Type:      api.TypeCopyFiles,
		FilePaths: paths,
		Timestamp: time.Now().UnixMilli(),
	})
}

// CopyToDirectory asks the bridge to copy paths into destination, or into
// its configured default when destination is empty.
func (c *Client) CopyToDirectory(ctx context.Context, paths []string, destination string) (*api.BridgeResponse, error) {
	return c.Transfer(ctx, "/copy-to-directory", api.TransferRequest{
		Type:        api.TypeCopyFiles,
		FilePaths:   paths,
		Timestamp:   time.Now().UnixMilli(),
		Destination: destination,
	})
}

// Transfer posts req to endpoint and returns the bridge's answer.
func (c *Client) Transfer(ctx context.Context, endpoint string, req api.TransferRequest) (*api.BridgeResponse, error) {
	var resp api.BridgeResponse
	if err := c.do(ctx, http.MethodPost, endpoint, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w at %s: %v", ErrUnreachable, c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(data, &payload) != nil {
			payload.Error = strings.TrimSpace(string(data))
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
