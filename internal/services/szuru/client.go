package szuru

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// MicroTag is the compact tag representation embedded in post and tag
// resources.
type MicroTag struct {
	Names    []string `json:"names"`
	Category string   `json:"category"`
}

// PrimaryName returns the tag's canonical name.
func (t MicroTag) PrimaryName() string {
	if len(t.Names) == 0 {
		return ""
	}
	return t.Names[0]
}

// Post is a szurubooru post resource.
type Post struct {
	ID      int64      `json:"id"`
	Version int64      `json:"version"`
	Safety  string     `json:"safety"`
	Source  string     `json:"source"`
	Tags    []MicroTag `json:"tags"`
}

// TagNames returns the primary names of the post's tags.
func (p *Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		if name := tag.PrimaryName(); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Tag is a full szurubooru tag resource.
type Tag struct {
	Names        []string   `json:"names"`
	Category     string     `json:"category"`
	Implications []MicroTag `json:"implications"`
	Version      int64      `json:"version"`
}

// PostsPage is one page of search results.
type PostsPage struct {
	Query   string `json:"query"`
	Offset  int    `json:"offset"`
	Limit   int    `json:"limit"`
	Total   int    `json:"total"`
	Results []Post `json:"results"`
}

// Client provides access to the szurubooru API.
type Client struct {
	baseURL    string
	username   string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a szurubooru client.
func New(baseURL, username, token string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("szurubooru base url required")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("szurubooru username required")
	}
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("szurubooru api token required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func (c *Client) authHeader() string {
	credentials := base64.StdEncoding.EncodeToString([]byte(c.username + ":" + c.token))
	return "Token " + credentials
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.execute(req, out)
}

func (c *Client) doMultipart(ctx context.Context, path, filename string, content []byte, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("content", filename)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.execute(req, out)
}

func (c *Client) execute(req *http.Request, out any) error {
	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(req, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode szurubooru response: %w", err)
	}
	return nil
}

func apiError(req *http.Request, resp *http.Response) error {
	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Name != "" {
		return fmt.Errorf("szurubooru %s %s returned %d: %s: %s",
			req.Method, req.URL.Path, resp.StatusCode, payload.Name, payload.Description)
	}
	return fmt.Errorf("szurubooru %s %s returned %d", req.Method, req.URL.Path, resp.StatusCode)
}
