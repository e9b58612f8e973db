// Package client talks to the inventory backend: the application list, the
// domain configuration and the test runner.
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

	"github.com/CDTO-DENKART/app-visualizer/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds every request made by a Client.
const DefaultTimeout = 30 * time.Second

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the backend at baseURL, e.g. "http://127.0.0.1:5000".
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// FetchApps reads GET /api/apps.
func (c *Client) FetchApps(ctx context.Context) (*model.Inventory, error) {
	var inv model.Inventory
	if err := c.do(ctx, http.MethodGet, "/api/apps", nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// FetchDomains reads GET /api/domains.
func (c *Client) FetchDomains(ctx context.Context) (*model.DomainsConfig, error) {
	var dc model.DomainsConfig
	if err := c.do(ctx, http.MethodGet, "/api/domains", nil, &dc); err != nil {
		return nil, err
	}
	return &dc, nil
}

// FetchInventory fetches applications and domains concurrently. Either
// failure fails the whole fetch.
func (c *Client) FetchInventory(ctx context.Context) (*model.Inventory, error) {
	var (
		inv     *model.Inventory
		domains *model.DomainsConfig
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		inv, err = c.FetchApps(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		domains, err = c.FetchDomains(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	inv.Domains = domains
	return inv, nil
}

type runRequest struct {
	Command string `json:"command"`
	Label   string `json:"label"`
}

type runResponse struct {
	Success bool   `json:"success"`
	PID     int    `json:"pid,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RunTest asks the backend to spawn command and returns its PID. A response
// with success=false is an error carrying the backend's message.
func (c *Client) RunTest(ctx context.Context, command, label string) (int, error) {
	var resp runResponse
	if err := c.do(ctx, http.MethodPost, "/api/test/run", runRequest{Command: command, Label: label}, &resp); err != nil {
		return 0, err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "unknown error"
		}
		return 0, &RunError{Label: label, Message: msg}
	}
	return resp.PID, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	url := c.baseURL + path
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &TransportError{Op: op, URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	// The test runner answers failures with a JSON body and a 4xx/5xx code,
	// so a decodable run response is accepted on any status.
	decodeErr := json.Unmarshal(data, out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if r, ok := out.(*runResponse); ok && decodeErr == nil && r.Error != "" {
			return nil
		}
		msg := strings.TrimSpace(truncate(string(data)))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &TransportError{Op: op, URL: url, StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}
	if decodeErr != nil {
		return &FormatError{
			URL:         url,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        truncate(string(data)),
			Err:         decodeErr,
		}
	}
	return nil
}

// Decode unmarshals a backend document read from origin, which may be a
// URL or a file path. Bad JSON yields a FormatError.
func Decode(origin string, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return &FormatError{URL: origin, ContentType: "application/json", Body: truncate(string(data)), Err: err}
	}
	return nil
}
