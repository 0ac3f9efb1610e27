package danbooru

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Post is the subset of a Danbooru post the pipelines consume.
type Post struct {
	ID              int64  `json:"id"`
	TagString       string `json:"tag_string"`
	TagStringArtist string `json:"tag_string_artist"`
	Rating          string `json:"rating"`
	Source          string `json:"source"`
}

// Tags returns the post's tags as a list.
func (p *Post) Tags() []string {
	return strings.Fields(p.TagString)
}

// Client provides access to the Danbooru API.
type Client struct {
	baseURL    string
	login      string
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

// New creates a Danbooru client. Login and API key may be empty for
// anonymous access.
func New(baseURL, login, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("danbooru base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		login:      strings.TrimSpace(login),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.login != "" && c.apiKey != "" && c.login != "none" && c.apiKey != "none" {
		params.Set("login", c.login)
		params.Set("api_key", c.apiKey)
	}
	endpoint := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("danbooru %s returned %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode danbooru response: %w", err)
	}
	return nil
}

// SearchArtist resolves an artist name against Danbooru's artist database
// and returns the canonical name, or an empty string when nothing matches.
func (c *Client) SearchArtist(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}

	params := url.Values{}
	params.Set("search[any_name_matches]", name)
	params.Set("search[is_deleted]", "false")
	params.Set("limit", "1")

	var artists []struct {
		Name string `json:"name"`
	}
	if err := c.get(ctx, "/artists.json", params, &artists); err != nil {
		return "", err
	}
	if len(artists) == 0 {
		return "", nil
	}
	return artists[0].Name, nil
}

// GetPost fetches a single post by id.
func (c *Client) GetPost(ctx context.Context, id int64) (*Post, error) {
	if id <= 0 {
		return nil, errors.New("post id must be positive")
	}
	var post Post
	if err := c.get(ctx, fmt.Sprintf("/posts/%d.json", id), url.Values{}, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// PostIDFromURL extracts the numeric post id from a Danbooru post URL.
func PostIDFromURL(rawURL string) (int64, error) {
	trimmed := strings.TrimRight(rawURL, "/")
	var token string
	if idx := strings.LastIndex(trimmed, "="); idx != -1 {
		token = trimmed[idx+1:]
	} else if idx := strings.LastIndex(trimmed, "/"); idx != -1 {
		token = trimmed[idx+1:]
	}
	var id int64
	if _, err := fmt.Sscanf(token, "%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("no post id in url %q", rawURL)
	}
	return id, nil
}
