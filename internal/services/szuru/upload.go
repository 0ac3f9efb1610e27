package szuru

import (
	"context"
	"errors"
	"net/http"
)

// UploadTemporary pushes raw file content into szurubooru's temporary upload
// area and returns the content token used by CreatePost.
func (c *Client) UploadTemporary(ctx context.Context, content []byte, filename string) (string, error) {
	if len(content) == 0 {
		return "", errors.New("upload content must not be empty")
	}
	var payload struct {
		Token string `json:"token"`
	}
	if err := c.doMultipart(ctx, "/api/uploads", filename, content, &payload); err != nil {
		return "", err
	}
	if payload.Token == "" {
		return "", errors.New("szurubooru upload returned no token")
	}
	return payload.Token, nil
}

// CreatePostRequest carries the fields for a new post.
type CreatePostRequest struct {
	Tags         []string
	Safety       string
	Source       string
	ContentToken string
}

// CreatePost creates a post from previously uploaded content.
func (c *Client) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if req.ContentToken == "" {
		return nil, errors.New("content token required")
	}
	if req.Safety == "" {
		return nil, errors.New("safety required")
	}
	payload := map[string]any{
		"tags":         req.Tags,
		"safety":       req.Safety,
		"contentToken": req.ContentToken,
	}
	if req.Source != "" {
		payload["source"] = req.Source
	}

	var post Post
	if err := c.doJSON(ctx, http.MethodPost, "/api/posts/", payload, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// SimilarPost is one entry of a reverse-search response.
type SimilarPost struct {
	Distance float64 `json:"distance"`
	Post     Post    `json:"post"`
}

// ReverseSearchResult reports content matches for an image.
type ReverseSearchResult struct {
	ExactPost    *Post         `json:"exactPost"`
	SimilarPosts []SimilarPost `json:"similarPosts"`
}

// ReverseSearch looks up posts with identical or similar content.
func (c *Client) ReverseSearch(ctx context.Context, content []byte, filename string) (*ReverseSearchResult, error) {
	if len(content) == 0 {
		return nil, errors.New("reverse search content must not be empty")
	}
	var result ReverseSearchResult
	if err := c.doMultipart(ctx, "/api/posts/reverse-search", filename, content, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
