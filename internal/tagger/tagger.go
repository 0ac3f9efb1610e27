package tagger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"szurutool/internal/services/szuru"
	"szurutool/internal/tags"
)

// Mode selects how additions combine with a post's existing tags.
type Mode string

const (
	// ModeAppend unions additions with the post's existing tags.
	ModeAppend Mode = "append"
	// ModeOverwrite replaces the post's tags with the additions.
	ModeOverwrite Mode = "overwrite"
)

// ParseMode validates a mode flag value.
func ParseMode(value string) (Mode, error) {
	switch Mode(value) {
	case ModeAppend, ModeOverwrite:
		return Mode(value), nil
	case "":
		return ModeAppend, nil
	}
	return "", fmt.Errorf("unknown mode %q (want append or overwrite)", value)
}

// Booru is the target-service surface the tag pipeline consumes.
type Booru interface {
	SearchPosts(ctx context.Context, query string, offset, limit int) (*szuru.PostsPage, error)
	UpdatePost(ctx context.Context, req szuru.UpdatePostRequest) (*szuru.Post, error)
	GetTag(ctx context.Context, name string) (*szuru.Tag, error)
}

// Options are the per-run inputs of the tag pipeline.
type Options struct {
	Query              string
	AddTags            []string
	RemoveTags         []string
	Mode               Mode
	UpdateImplications bool
	ScrapeURL          string
}

// Runner executes the tag pipeline.
type Runner struct {
	booru   Booru
	scraper *Scraper
	logger  *slog.Logger

	// OnProgress, when set, is called after each post with the number of
	// posts handled so far and the total.
	OnProgress func(done, total int)
}

// NewRunner wires a tag pipeline. The scraper may be nil when URL
// scraping is not configured.
func NewRunner(booru Booru, scraper *Scraper, logger *slog.Logger) (*Runner, error) {
	if booru == nil {
		return nil, errors.New("booru client required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{booru: booru, scraper: scraper, logger: logger}, nil
}

// Run applies the requested tag edits to every post matching the query.
// Posts are updated one at a time; a failed update is logged and the run
// continues with the next post.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	if opts.Mode == "" {
		opts.Mode = ModeAppend
	}

	additions := tags.Check(opts.AddTags)
	if opts.ScrapeURL != "" {
		if r.scraper == nil {
			return errors.New("no scraper configured for --url")
		}
		scraped, err := r.scraper.ScrapeTags(ctx, opts.ScrapeURL)
		if err != nil {
			return fmt.Errorf("scrape %s: %w", opts.ScrapeURL, err)
		}
		additions = tags.Union(additions, scraped)
	}

	first, err := r.booru.SearchPosts(ctx, opts.Query, 0, 0)
	if err != nil {
		return fmt.Errorf("search posts: %w", err)
	}
	if first.Total == 0 {
		r.logger.Info("no posts matched query", "query", opts.Query)
		return nil
	}
	r.logger.Info("tagging posts", "query", opts.Query, "total", first.Total, "mode", string(opts.Mode))

	done := 0
	page := first
	offset := 0
	for {
		for index := range page.Results {
			if err := ctx.Err(); err != nil {
				return err
			}
			post := &page.Results[index]
			if err := r.tagPost(ctx, post, additions, opts); err != nil {
				r.logger.Error("post update failed", "post_id", post.ID, "error", err)
			}
			done++
			if r.OnProgress != nil {
				r.OnProgress(done, first.Total)
			}
		}
		offset += len(page.Results)
		if offset >= first.Total || len(page.Results) == 0 {
			return nil
		}
		page, err = r.booru.SearchPosts(ctx, opts.Query, offset, 0)
		if err != nil {
			return fmt.Errorf("search posts at offset %d: %w", offset, err)
		}
	}
}

func (r *Runner) tagPost(ctx context.Context, post *szuru.Post, additions []string, opts Options) error {
	// Overwrite only replaces tags when there is something to replace them
	// with; a removal- or implication-only run must keep the existing tags.
	var updated []string
	switch {
	case opts.Mode == ModeOverwrite && len(additions) > 0:
		updated = append([]string(nil), additions...)
	case opts.Mode == ModeOverwrite:
		updated = append([]string(nil), post.TagNames()...)
	default:
		updated = tags.Union(post.TagNames(), additions)
	}
	updated = tags.Remove(updated, opts.RemoveTags)

	if opts.UpdateImplications {
		expanded, err := r.expandImplications(ctx, updated)
		if err != nil {
			return err
		}
		updated = expanded
	}

	_, err := r.booru.UpdatePost(ctx, szuru.UpdatePostRequest{
		ID:      post.ID,
		Version: post.Version,
		Tags:    updated,
	})
	return err
}

// expandImplications appends every tag implied by a tag already on the
// post, each at most once. Implications of implied tags are not chased.
func (r *Runner) expandImplications(ctx context.Context, list []string) ([]string, error) {
	expanded := append([]string(nil), list...)
	for _, name := range list {
		tag, err := r.booru.GetTag(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("fetch tag %q: %w", name, err)
		}
		for _, implied := range tag.Implications {
			if primary := implied.PrimaryName(); primary != "" && !tags.Contains(expanded, primary) {
				expanded = append(expanded, primary)
			}
		}
	}
	return expanded, nil
}
