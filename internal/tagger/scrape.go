package tagger

import (
	"context"
	"fmt"
	"strings"

	"szurutool/internal/services/danbooru"
	"szurutool/internal/services/gelbooru"
	"szurutool/internal/services/pixiv"
)

type danbooruPosts interface {
	GetPost(ctx context.Context, id int64) (*danbooru.Post, error)
}

type gelbooruPosts interface {
	GetPost(ctx context.Context, id int64) (*gelbooru.Post, error)
}

type pixivIllusts interface {
	IllustDetail(ctx context.Context, id int64) (*pixiv.Illust, error)
}

// Scraper fetches the canonical tag set for a single external post URL.
type Scraper struct {
	danbooru danbooruPosts
	gelbooru gelbooruPosts
	pixiv    pixivIllusts
}

// ScraperOptions configures NewScraper. Every client is optional; URLs for
// an absent client are rejected at scrape time.
type ScraperOptions struct {
	Danbooru danbooruPosts
	Gelbooru gelbooruPosts
	Pixiv    pixivIllusts
}

// NewScraper creates a Scraper.
func NewScraper(opts ScraperOptions) *Scraper {
	return &Scraper{danbooru: opts.Danbooru, gelbooru: opts.Gelbooru, pixiv: opts.Pixiv}
}

// ScrapeTags dispatches the URL to the matching lookup client and returns
// that post's tag list.
func (s *Scraper) ScrapeTags(ctx context.Context, rawURL string) ([]string, error) {
	switch {
	case strings.Contains(rawURL, "danbooru"):
		if s.danbooru == nil {
			return nil, fmt.Errorf("danbooru lookups not configured")
		}
		id, err := danbooru.PostIDFromURL(rawURL)
		if err != nil {
			return nil, err
		}
		post, err := s.danbooru.GetPost(ctx, id)
		if err != nil {
			return nil, err
		}
		return post.Tags(), nil
	case strings.Contains(rawURL, "gelbooru"):
		if s.gelbooru == nil {
			return nil, fmt.Errorf("gelbooru lookups not configured")
		}
		id, err := gelbooru.PostIDFromURL(rawURL)
		if err != nil {
			return nil, err
		}
		post, err := s.gelbooru.GetPost(ctx, id)
		if err != nil {
			return nil, err
		}
		return post.Tags(), nil
	case strings.Contains(rawURL, "pixiv"):
		if s.pixiv == nil {
			return nil, fmt.Errorf("pixiv lookups not configured")
		}
		id, err := pixiv.IllustIDFromURL(rawURL)
		if err != nil {
			return nil, err
		}
		illust, err := s.pixiv.IllustDetail(ctx, id)
		if err != nil {
			return nil, err
		}
		return illust.TagNames(), nil
	}
	return nil, fmt.Errorf("no tag scraper for url %q", rawURL)
}
