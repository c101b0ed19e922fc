// Package client talks to the sylly server and drives the upload flow.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sylly/backend/internal/models"
	"github.com/vmihailenco/msgpack/v5"
)

// DefaultTimeout covers a full extraction round trip.
const DefaultTimeout = 3 * time.Minute

// ServerError is an error status reported by the server.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// Client is a thin wrapper over net/http for the sylly API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the server root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FileURL turns a site-relative upload URL into an absolute one.
func (c *Client) FileURL(url string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return c.baseURL + "/" + strings.TrimLeft(url, "/")
}

// Extract uploads the file at path and returns the server's events.
func (c *Client) Extract(ctx context.Context, path string) (*models.ExtractResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/extract", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var resp models.ExtractResponse
	if err := c.doJSON(req, &resp); err != nil {
		return nil, err
	}
	if resp.Status != models.StatusSuccess {
		return nil, &ServerError{StatusCode: http.StatusOK, Message: resp.Message}
	}
	if resp.Events == nil {
		resp.Events = []models.Event{}
	}
	return &resp, nil
}

// ListUploads fetches the server's upload directory listing.
func (c *Client) ListUploads(ctx context.Context) ([]models.ListedFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/uploads", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/msgpack")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, statusError(res.StatusCode, data)
	}

	var list models.ListResponse
	if err := msgpack.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	return list.Files, nil
}

// ExportCalendar asks the server to render events as an .ics document.
func (c *Client) ExportCalendar(ctx context.Context, events []models.Event) ([]byte, error) {
	payload, err := json.Marshal(map[string][]models.Event{"events": events})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/calendar", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, statusError(res.StatusCode, data)
	}
	return data, nil
}

func (c *Client) doJSON(req *http.Request, v interface{}) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode != http.StatusOK {
		return statusError(res.StatusCode, data)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError prefers the message of a uniform error body.
func statusError(code int, body []byte) error {
	var e struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil && e.Message != "" {
		return &ServerError{StatusCode: code, Message: e.Message}
	}
	return &ServerError{StatusCode: code, Message: fmt.Sprintf("Server error (%d)", code)}
}
