package gelbooru

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Post is the subset of a Gelbooru post the pipelines consume.
type Post struct {
	ID        int64  `json:"id"`
	TagString string `json:"tags"`
	Rating    string `json:"rating"`
	Source    string `json:"source"`
}

// Tags returns the post's tags as a list.
func (p *Post) Tags() []string {
	return strings.Fields(p.TagString)
}

// Client provides access to the Gelbooru API.
type Client struct {
	baseURL    string
	userID     string
	apiKey     string
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

// New creates a Gelbooru client. User id and API key may be empty for
// anonymous access.
func New(baseURL, userID, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("gelbooru base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userID:     strings.TrimSpace(userID),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// GetPost fetches a single post by id.
func (c *Client) GetPost(ctx context.Context, id int64) (*Post, error) {
	if id <= 0 {
		return nil, errors.New("post id must be positive")
	}

	params := url.Values{}
	params.Set("page", "dapi")
	params.Set("s", "post")
	params.Set("q", "index")
	params.Set("json", "1")
	params.Set("id", strconv.FormatInt(id, 10))
	if c.userID != "" && c.apiKey != "" && c.userID != "none" && c.apiKey != "none" {
		params.Set("user_id", c.userID)
		params.Set("api_key", c.apiKey)
	}
	endpoint := c.baseURL + "/index.php?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gelbooru returned %d", resp.StatusCode)
	}

	var payload struct {
		Post []Post `json:"post"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode gelbooru response: %w", err)
	}
	if len(payload.Post) == 0 {
		return nil, fmt.Errorf("gelbooru post %d not found", id)
	}
	return &payload.Post[0], nil
}

// PostIDFromURL extracts the numeric post id from a Gelbooru post URL.
func PostIDFromURL(rawURL string) (int64, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("parse url: %w", err)
	}
	id, err := strconv.ParseInt(parsed.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("no post id in url %q", rawURL)
	}
	return id, nil
}
