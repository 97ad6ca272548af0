package orbit

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
)

const (
	DefaultAPIURL      = "http://localhost:3000/api"
	defaultHTTPTimeout = 12 * time.Second
	defaultUserAgent   = "orbit-viewer/1"
)

// Info holds the four corner annotation strings of a model.
type Info struct {
	TL string `json:"tl"`
	TR string `json:"tr"`
	BL string `json:"bl"`
	BR string `json:"br"`
}

// Annotations returns the info strings indexed by Corner.
func (i Info) Annotations() Annotations {
	return Annotations{TopLeft: i.TL, TopRight: i.TR, BottomLeft: i.BL, BottomRight: i.BR}
}

// Pointers holds optional custom anchor points in viewport percent.
type Pointers struct {
	TL *Vec2 `json:"tl,omitempty"`
	TR *Vec2 `json:"tr,omitempty"`
	BL *Vec2 `json:"bl,omitempty"`
	BR *Vec2 `json:"br,omitempty"`
}

// Anchors merges p over DefaultAnchors.
func (p *Pointers) Anchors() Anchors {
	a := DefaultAnchors
	if p == nil {
		return a
	}
	for i, v := range [4]*Vec2{p.TL, p.TR, p.BL, p.BR} {
		if v != nil {
			a[i] = *v
		}
	}
	return a
}

// SectionSpec is a narrative section as supplied by the server.
type SectionSpec struct {
	Label string `json:"label"`
	// Orbit is nil when the server leaves framing to the renderer.
	Orbit      *CameraTarget `json:"orbit,omitempty"`
	Annotation string        `json:"annotation,omitempty"`
}

// Model is the catalog metadata for one 3D asset.
type Model struct {
	ShortID  string        `json:"shortId"`
	URL      string        `json:"url"`
	Name     string        `json:"name"`
	Views    uint64        `json:"views"`
	Likes    uint64        `json:"likes"`
	Info     Info          `json:"info"`
	Pointers *Pointers     `json:"pointers,omitempty"`
	Qty      int           `json:"qty"`
	Sold     int           `json:"sold"`
	Sections []SectionSpec `json:"sections,omitempty"`
}

// ModelFetcher loads model metadata.
type ModelFetcher interface {
	GetModel(ctx context.Context, shortID string) (Model, error)
}

// Client wraps HTTP access to the catalog API. It implements ModelFetcher
// and CounterRemote. Requests are never retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// APIError is returned when the catalog API responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "catalog api error"
	}
	if e.Body == "" {
		return fmt.Sprintf("catalog api error: %s", e.Status)
	}
	return fmt.Sprintf("catalog api error: %s: %s", e.Status, e.Body)
}

// IsNotFound reports whether the error represents a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// NewClient creates a catalog client for baseURL (e.g.
// "http://localhost:3000/api"). If httpClient is nil, a default client is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  defaultUserAgent,
	}
}

// GetModel fetches metadata for one model.
func (c *Client) GetModel(ctx context.Context, shortID string) (Model, error) {
	id := strings.TrimSpace(shortID)
	if id == "" {
		return Model{}, errors.New("short id is required")
	}
	var m Model
	if err := c.doJSON(ctx, http.MethodGet, c.modelURL(id), nil, &m); err != nil {
		return Model{}, err
	}
	if m.ShortID == "" {
		m.ShortID = id
	}
	return m, nil
}

// ListModels fetches every model in the catalog.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var models []Model
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/models", nil, &models); err != nil {
		return nil, err
	}
	return models, nil
}

// IncrementView records one view. The response body is ignored.
func (c *Client) IncrementView(ctx context.Context, shortID string) error {
	return c.doJSON(ctx, http.MethodPost, c.modelURL(shortID)+"/view", nil, nil)
}

// ChangeLikes applies a like delta of +1 or -1.
func (c *Client) ChangeLikes(ctx context.Context, shortID string, delta int) error {
	if delta != 1 && delta != -1 {
		return fmt.Errorf("like change must be +1 or -1, got %d", delta)
	}
	body := struct {
		Change int `json:"change"`
	}{Change: delta}
	return c.doJSON(ctx, http.MethodPost, c.modelURL(shortID)+"/like", body, nil)
}

func (c *Client) modelURL(shortID string) string {
	return fmt.Sprintf("%s/models/%s", c.baseURL, url.PathEscape(shortID))
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
		return &APIError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Endpoint:   endpoint,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return nil
}

// ParseShortID extracts the model id from a viewer path such as
// "/view/abc123". It returns "" when the path has no usable last segment.
func ParseShortID(path string) string {
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	path = strings.TrimRight(path, "/")
	i := strings.LastIndex(path, "/")
	id := path[i+1:]
	if id == "view" {
		return ""
	}
	return id
}
