package engine

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

	domain "github.com/bryanwahyu/accessiscan/internal/domain/scans"
)

// DefaultBaseURL is used when no engine URL is configured.
const DefaultBaseURL = "http://localhost:4000"

// Config konfigurasi klien engine
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client talks to the scan engine's v1 HTTP API. Calls are single
// attempts: no retry, no backoff. Cancelling ctx aborts the request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a client, filling in defaults for empty fields.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "accessiscan/1.0"
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
	}
}

// BaseURL returns the engine origin this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// CreateWebsite: POST /api/v1/website/create
func (c *Client) CreateWebsite(ctx context.Context, rawURL, name string) (*domain.Website, error) {
	body := struct {
		URL  string `json:"url"`
		Name string `json:"name,omitempty"`
	}{URL: rawURL, Name: name}

	var w domain.Website
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/website/create", body, ErrCreateWebsite, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateScan: POST /api/v1/scan/create
func (c *Client) CreateScan(ctx context.Context, websiteID string) (*domain.Scan, error) {
	body := struct {
		WebsiteID string `json:"websiteId"`
	}{WebsiteID: websiteID}

	var s domain.Scan
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/scan/create", body, ErrCreateScan, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetScan: GET /api/v1/scan/{id}
func (c *Client) GetScan(ctx context.Context, id domain.ScanID) (*domain.Scan, error) {
	var s domain.Scan
	if err := c.doJSON(ctx, http.MethodGet, scanPath(id), nil, ErrGetScan, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DownloadPDF streams GET /api/v1/scan/{id}/pdf into w. A 404 means the
// engine has not rendered the report yet and yields ErrReportNotReady.
func (c *Client) DownloadPDF(ctx context.Context, id domain.ScanID, w io.Writer) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, scanPath(id)+"/pdf", nil)
	if err != nil {
		return 0, &Error{Kind: ErrDownloadPDF, Err: err}
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &Error{Kind: ErrDownloadPDF, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		drain(resp.Body)
		return 0, &Error{Kind: ErrReportNotReady, StatusCode: resp.StatusCode}
	}
	if !ok(resp.StatusCode) {
		drain(resp.Body)
		return 0, &Error{Kind: ErrDownloadPDF, StatusCode: resp.StatusCode}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &Error{Kind: ErrDownloadPDF, StatusCode: resp.StatusCode, Err: fmt.Errorf("streaming body: %w", err)}
	}
	return n, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, kind error, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: kind, Err: fmt.Errorf("encoding request: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return &Error{Kind: kind, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if !ok(resp.StatusCode) {
		drain(resp.Body)
		return &Error{Kind: kind, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: kind, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return req, nil
}

func scanPath(id domain.ScanID) string {
	return "/api/v1/scan/" + url.PathEscape(string(id))
}

func ok(code int) bool { return code >= 200 && code < 300 }

// drain lets the transport reuse the connection.
func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 4<<10))
}
