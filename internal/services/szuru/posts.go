package szuru

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize is the search page size used when callers pass a
// non-positive limit.
const DefaultPageSize = 100

// SearchPosts returns one page of posts matching the query.
func (c *Client) SearchPosts(ctx context.Context, query string, offset, limit int) (*PostsPage, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))

	var page PostsPage
	if err := c.doJSON(ctx, http.MethodGet, "/api/posts/?"+params.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdatePostRequest carries the fields of a version-checked post update.
type UpdatePostRequest struct {
	ID      int64
	Version int64
	Tags    []string
	Safety  string
	Source  string
}

// UpdatePost persists a single post. The server rejects the update when the
// version no longer matches.
func (c *Client) UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error) {
	if req.ID <= 0 {
		return nil, errors.New("post id must be positive")
	}
	payload := map[string]any{
		"version": req.Version,
		"tags":    req.Tags,
	}
	if req.Safety != "" {
		payload["safety"] = req.Safety
	}
	if req.Source != "" {
		payload["source"] = req.Source
	}

	var post Post
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/post/%d", req.ID), payload, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetTag fetches a tag resource by any of its names.
func (c *Client) GetTag(ctx context.Context, name string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("tag name must not be empty")
	}
	var tag Tag
	if err := c.doJSON(ctx, http.MethodGet, "/api/tag/"+url.PathEscape(name), nil, &tag); err != nil {
		return nil, err
	}
	return &tag, nil
}
