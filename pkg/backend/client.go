package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bayup/go-studio/components/studio"
)

// ErrRemote wraps non-2xx responses from the backend.
var ErrRemote = errors.New("backend: remote error")

// Config configures the backend REST client.
type Config struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// Client talks to the store backend. It implements studio.PageStore.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

var _ studio.PageStore = (*Client)(nil)

// NewClient builds a client for the backend at cfg.BaseURL.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  httpClient,
	}, nil
}

// SavePage stores the page schema for the authenticated tenant. The backend derives the
// tenant from the bearer token, so tenantID is informational only.
func (c *Client) SavePage(ctx context.Context, tenantID string, page studio.PageName, schema studio.PageSchema) error {
	raw, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("backend: encode page %s: %w", page, err)
	}
	req := shopPage{PageKey: string(page), SchemaData: raw}
	return c.do(ctx, http.MethodPost, "/shop-pages", req, nil)
}

// LoadPage fetches the published page of a tenant.
func (c *Client) LoadPage(ctx context.Context, tenantID string, page studio.PageName) (studio.PageSchema, error) {
	path := "/public/store/" + url.PathEscape(tenantID) + "/page/" + url.PathEscape(string(page))
	var resp shopPage
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) && remote.Status == http.StatusNotFound {
			return studio.PageSchema{}, fmt.Errorf("%w: %s/%s", studio.ErrPageNotFound, tenantID, page)
		}
		return studio.PageSchema{}, err
	}
	if len(resp.SchemaData) == 0 || string(resp.SchemaData) == "null" {
		return studio.PageSchema{}, fmt.Errorf("%w: %s/%s", studio.ErrPageNotFound, tenantID, page)
	}
	var schema studio.PageSchema
	if err := json.Unmarshal(resp.SchemaData, &schema); err != nil {
		return studio.PageSchema{}, fmt.Errorf("backend: decode page %s: %w", page, err)
	}
	return schema, nil
}

// RemoteError carries the status and body of a failed request.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("backend: remote error %d: %s", e.Status, e.Body)
}

func (e *RemoteError) Unwrap() error { return ErrRemote }

func (c *Client) do(ctx context.Context, method, path string, payload any, target any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("backend: encode payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return &RemoteError{Status: resp.StatusCode, Body: strings.TrimSpace(buf.String())}
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("backend: decode response: %w", err)
	}
	return nil
}

type shopPage struct {
	PageKey    string          `json:"page_key"`
	SchemaData json.RawMessage `json:"schema_data"`
}
