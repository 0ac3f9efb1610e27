package pixiv

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Mobile app credentials published with the official Pixiv clients. The
// app API rejects requests that do not present them.
const (
	clientID     = "MOBrBDS8blbauoSck0ZfDbtuzpyT"
	clientSecret = "lsACyCD94FhDUtGTXi3QzcFE2uU1hqtDaKeqrdwj"
	hashSalt     = "28c1fdd170a5204386cb1313c7077b34f83e4aaf4aa829ce78c231e05b0bae2c"

	defaultAuthURL = "https://oauth.secure.pixiv.net/auth/token"
	defaultBaseURL = "https://app-api.pixiv.net"
)

// The app API drops connections under load; lookups retry transport
// errors a bounded number of times before giving up.
const (
	maxConnAttempts   = 11
	defaultRetryDelay = 5 * time.Second
)

// Illust is the subset of a Pixiv illustration the pipelines consume.
type Illust struct {
	ID        int64 `json:"id"`
	XRestrict int   `json:"x_restrict"`
	User      struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Account string `json:"account"`
	} `json:"user"`
	Tags []struct {
		Name string `json:"name"`
	} `json:"tags"`
}

// TagNames returns the illustration's tags, excluding the R-18 marker
// which is represented by the safety rating instead.
func (i *Illust) TagNames() []string {
	names := make([]string, 0, len(i.Tags))
	for _, tag := range i.Tags {
		if tag.Name == "R-18" {
			continue
		}
		names = append(names, tag.Name)
	}
	return names
}

// Rating maps the illustration's restriction level to a szurubooru
// safety rating.
func (i *Illust) Rating() string {
	if i.XRestrict > 0 {
		return "unsafe"
	}
	for _, tag := range i.Tags {
		if tag.Name == "R-18" {
			return "unsafe"
		}
	}
	return "safe"
}

// Client provides access to the Pixiv app API.
type Client struct {
	authURL      string
	baseURL      string
	refreshToken string
	httpClient   *http.Client
	retryDelay   time.Duration

	accessToken string
	expiresAt   time.Time
	now         func() time.Time
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

// WithAuthURL overrides the OAuth token endpoint.
func WithAuthURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.authURL = strings.TrimRight(u, "/")
		}
	}
}

// WithBaseURL overrides the app API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithRetryDelay overrides the pause between connection retries.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.retryDelay = d
		}
	}
}

// New creates a Pixiv client authenticated by refresh token.
func New(refreshToken string, opts ...Option) (*Client, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, errors.New("pixiv refresh token required")
	}
	client := &Client{
		authURL:      defaultAuthURL,
		baseURL:      defaultBaseURL,
		refreshToken: refreshToken,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		retryDelay:   defaultRetryDelay,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func (c *Client) authenticate(ctx context.Context) error {
	if c.accessToken != "" && c.now().Before(c.expiresAt) {
		return nil
	}

	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", c.refreshToken)
	form.Set("get_secure_url", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	clientTime := c.now().UTC().Format("2006-01-02T15:04:05+00:00")
	req.Header.Set("X-Client-Time", clientTime)
	req.Header.Set("X-Client-Hash", fmt.Sprintf("%x", md5.Sum([]byte(clientTime+hashSalt))))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pixiv auth returned %d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}
	if payload.AccessToken == "" {
		return errors.New("pixiv auth returned no access token")
	}
	c.accessToken = payload.AccessToken
	// Refresh a minute early so in-flight requests never race expiry.
	c.expiresAt = c.now().Add(time.Duration(payload.ExpiresIn)*time.Second - time.Minute)
	return nil
}

// IllustDetail fetches a single illustration by id.
func (c *Client) IllustDetail(ctx context.Context, id int64) (*Illust, error) {
	if id <= 0 {
		return nil, errors.New("illust id must be positive")
	}
	if err := c.authenticate(ctx); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/v1/illust/detail?illust_id=" + strconv.FormatInt(id, 10)
	var resp *http.Response
	for attempt := 1; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.accessToken)

		resp, err = c.httpClient.Do(req)
		if err == nil {
			break
		}
		if attempt >= maxConnAttempts {
			return nil, fmt.Errorf("execute request after %d attempts: %w", attempt, err)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pixiv illust detail returned %d", resp.StatusCode)
	}

	var payload struct {
		Illust Illust `json:"illust"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode illust response: %w", err)
	}
	if payload.Illust.ID == 0 {
		return nil, fmt.Errorf("pixiv illust %d not found", id)
	}
	return &payload.Illust, nil
}

// IllustIDFromURL extracts the illustration id from a Pixiv URL, handling
// both the modern /artworks/<id> form and the legacy illust_id=<id> form.
func IllustIDFromURL(rawURL string) (int64, error) {
	trimmed := strings.TrimRight(rawURL, "/")
	var token string
	if idx := strings.LastIndex(trimmed, "="); idx != -1 {
		token = trimmed[idx+1:]
	} else if idx := strings.LastIndex(trimmed, "/"); idx != -1 {
		token = trimmed[idx+1:]
	}
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("no illust id in url %q", rawURL)
	}
	return id, nil
}
