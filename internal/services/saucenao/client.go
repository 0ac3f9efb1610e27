package saucenao

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Result is a single SauceNAO match with the ids the importer can act on.
type Result struct {
	Similarity float64
	Source     string
	DanbooruID int64
	GelbooruID int64
	PixivID    int64
}

// Response is a reverse lookup outcome plus the account's remaining quota.
type Response struct {
	Results        []Result
	LongRemaining  int
	ShortRemaining int
}

// Exhausted reports whether the account has no lookups left in the
// 24-hour window. The short window resets within seconds and does not
// warrant giving up on the rest of a run.
func (r *Response) Exhausted() bool {
	return r.LongRemaining <= 0
}

// Client provides access to the SauceNAO API.
type Client struct {
	baseURL    string
	apiKey     string
	numResults int
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

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithNumResults limits how many matches a lookup returns.
func WithNumResults(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.numResults = n
		}
	}
}

// New creates a SauceNAO client.
func New(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("saucenao api key required")
	}
	client := &Client{
		baseURL:    "https://saucenao.com",
		apiKey:     apiKey,
		numResults: 5,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type rawResponse struct {
	Header struct {
		Status         int    `json:"status"`
		LongRemaining  int    `json:"long_remaining"`
		ShortRemaining int    `json:"short_remaining"`
		Message        string `json:"message"`
	} `json:"header"`
	Results []struct {
		Header struct {
			Similarity string `json:"similarity"`
		} `json:"header"`
		Data struct {
			DanbooruID int64    `json:"danbooru_id"`
			GelbooruID int64    `json:"gelbooru_id"`
			PixivID    int64    `json:"pixiv_id"`
			ExtURLs    []string `json:"ext_urls"`
		} `json:"data"`
	} `json:"results"`
}

// Search uploads image content for a reverse lookup.
func (c *Client) Search(ctx context.Context, content []byte, filename string) (*Response, error) {
	if len(content) == 0 {
		return nil, errors.New("search content must not be empty")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := map[string]string{
		"output_type": "2",
		"api_key":     c.apiKey,
		"db":          "999",
		"numres":      fmt.Sprintf("%d", c.numResults),
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write form field: %w", err)
		}
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search.php", &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &Response{LongRemaining: 0, ShortRemaining: 0}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("saucenao returned %d", resp.StatusCode)
	}

	var raw rawResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode saucenao response: %w", err)
	}
	if raw.Header.Status < 0 {
		return nil, fmt.Errorf("saucenao request failed: %s", raw.Header.Message)
	}

	result := &Response{
		LongRemaining:  raw.Header.LongRemaining,
		ShortRemaining: raw.Header.ShortRemaining,
	}
	for _, entry := range raw.Results {
		var similarity float64
		_, _ = fmt.Sscanf(entry.Header.Similarity, "%f", &similarity)
		match := Result{
			Similarity: similarity,
			DanbooruID: entry.Data.DanbooruID,
			GelbooruID: entry.Data.GelbooruID,
			PixivID:    entry.Data.PixivID,
		}
		if len(entry.Data.ExtURLs) > 0 {
			match.Source = entry.Data.ExtURLs[0]
		}
		result.Results = append(result.Results, match)
	}
	return result, nil
}
