package importer

import (
	"context"
	"fmt"
	"log/slog"

	"szurutool/internal/services/danbooru"
	"szurutool/internal/services/gelbooru"
	"szurutool/internal/services/pixiv"
	"szurutool/internal/services/saucenao"
	"szurutool/internal/services/szuru"
	"szurutool/internal/sidecar"
	"szurutool/internal/tags"
)

// UploadLimits carries per-run lookup quota state between iterations.
// Once the reverse-image quota is exhausted, later files in the same run
// must skip that service.
type UploadLimits struct {
	SauceNAOExhausted bool
}

// Uploader pushes one downloaded file into the target booru and reports
// the updated quota state.
type Uploader interface {
	Upload(ctx context.Context, content []byte, filename string, meta *sidecar.Metadata, tagList []string, limits UploadLimits) (int64, UploadLimits, error)
}

// booruUploader is the szurubooru surface the uploader consumes.
type booruUploader interface {
	ReverseSearch(ctx context.Context, content []byte, filename string) (*szuru.ReverseSearchResult, error)
	UploadTemporary(ctx context.Context, content []byte, filename string) (string, error)
	CreatePost(ctx context.Context, req szuru.CreatePostRequest) (*szuru.Post, error)
}

type reverseImageSearcher interface {
	Search(ctx context.Context, content []byte, filename string) (*saucenao.Response, error)
}

type danbooruPosts interface {
	GetPost(ctx context.Context, id int64) (*danbooru.Post, error)
}

type gelbooruPosts interface {
	GetPost(ctx context.Context, id int64) (*gelbooru.Post, error)
}

type pixivIllusts interface {
	IllustDetail(ctx context.Context, id int64) (*pixiv.Illust, error)
}

// SzuruUploader uploads files to szurubooru, deduplicating against
// existing content and augmenting untagged files via reverse image search.
type SzuruUploader struct {
	booru         booruUploader
	reverseSearch reverseImageSearcher
	danbooru      danbooruPosts
	gelbooru      gelbooruPosts
	pixiv         pixivIllusts
	minSimilarity float64
	logger        *slog.Logger
}

// SzuruUploaderOptions configures NewSzuruUploader. Every lookup client is
// optional; absent clients simply skip their augmentation step.
type SzuruUploaderOptions struct {
	Booru         booruUploader
	ReverseSearch reverseImageSearcher
	Danbooru      danbooruPosts
	Gelbooru      gelbooruPosts
	Pixiv         pixivIllusts
	MinSimilarity float64
	Logger        *slog.Logger
}

// NewSzuruUploader creates an uploader bound to a szurubooru client.
func NewSzuruUploader(opts SzuruUploaderOptions) (*SzuruUploader, error) {
	if opts.Booru == nil {
		return nil, fmt.Errorf("szurubooru client required")
	}
	if opts.MinSimilarity <= 0 {
		opts.MinSimilarity = 80
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &SzuruUploader{
		booru:         opts.Booru,
		reverseSearch: opts.ReverseSearch,
		danbooru:      opts.Danbooru,
		gelbooru:      opts.Gelbooru,
		pixiv:         opts.Pixiv,
		minSimilarity: opts.MinSimilarity,
		logger:        opts.Logger,
	}, nil
}

var _ Uploader = (*SzuruUploader)(nil)

// Upload pushes one file. Files already present on the instance are skipped
// and report the existing post id.
func (u *SzuruUploader) Upload(ctx context.Context, content []byte, filename string, meta *sidecar.Metadata, tagList []string, limits UploadLimits) (int64, UploadLimits, error) {
	existing, err := u.booru.ReverseSearch(ctx, content, filename)
	if err != nil {
		return 0, limits, fmt.Errorf("reverse search: %w", err)
	}
	if existing.ExactPost != nil {
		u.logger.Info("skipping duplicate upload",
			"file", filename, "post_id", existing.ExactPost.ID)
		return existing.ExactPost.ID, limits, nil
	}

	if len(tagList) == 0 && u.reverseSearch != nil && !limits.SauceNAOExhausted {
		var found []string
		found, limits = u.lookupTags(ctx, content, filename, meta, limits)
		tagList = found
	}
	if len(tagList) == 0 {
		tagList = []string{"tagme"}
	}

	token, err := u.booru.UploadTemporary(ctx, content, filename)
	if err != nil {
		return 0, limits, fmt.Errorf("upload %s: %w", filename, err)
	}
	post, err := u.booru.CreatePost(ctx, szuru.CreatePostRequest{
		Tags:         tags.Check(tagList),
		Safety:       meta.Safety,
		Source:       meta.Source,
		ContentToken: token,
	})
	if err != nil {
		return 0, limits, fmt.Errorf("create post for %s: %w", filename, err)
	}
	return post.ID, limits, nil
}

// lookupTags reverse-searches the file and pulls the tag set from the best
// match's home booru. Failures degrade to an empty tag list.
func (u *SzuruUploader) lookupTags(ctx context.Context, content []byte, filename string, meta *sidecar.Metadata, limits UploadLimits) ([]string, UploadLimits) {
	resp, err := u.reverseSearch.Search(ctx, content, filename)
	if err != nil {
		u.logger.Warn("reverse image search failed", "file", filename, "error", err)
		return nil, limits
	}
	limits.SauceNAOExhausted = resp.Exhausted()
	if limits.SauceNAOExhausted {
		u.logger.Info("reverse image search quota exhausted, skipping for the rest of the run")
	}

	for _, match := range resp.Results {
		if match.Similarity < u.minSimilarity {
			continue
		}
		if found := u.tagsForMatch(ctx, match, meta); len(found) > 0 {
			return found, limits
		}
	}
	return nil, limits
}

func (u *SzuruUploader) tagsForMatch(ctx context.Context, match saucenao.Result, meta *sidecar.Metadata) []string {
	switch {
	case match.DanbooruID > 0 && u.danbooru != nil:
		post, err := u.danbooru.GetPost(ctx, match.DanbooruID)
		if err != nil {
			u.logger.Warn("danbooru lookup failed", "post_id", match.DanbooruID, "error", err)
			return nil
		}
		if meta.Source == "" {
			meta.Source = fmt.Sprintf("https://danbooru.donmai.us/posts/%d", post.ID)
		}
		meta.Safety = sidecar.ConvertRating(post.Rating)
		return post.Tags()
	case match.GelbooruID > 0 && u.gelbooru != nil:
		post, err := u.gelbooru.GetPost(ctx, match.GelbooruID)
		if err != nil {
			u.logger.Warn("gelbooru lookup failed", "post_id", match.GelbooruID, "error", err)
			return nil
		}
		if meta.Source == "" {
			meta.Source = fmt.Sprintf("https://gelbooru.com/index.php?page=post&s=view&id=%d", post.ID)
		}
		meta.Safety = sidecar.ConvertRating(post.Rating)
		return post.Tags()
	case match.PixivID > 0 && u.pixiv != nil:
		illust, err := u.pixiv.IllustDetail(ctx, match.PixivID)
		if err != nil {
			u.logger.Warn("pixiv lookup failed", "illust_id", match.PixivID, "error", err)
			return nil
		}
		if meta.Source == "" {
			meta.Source = fmt.Sprintf("https://www.pixiv.net/artworks/%d", illust.ID)
		}
		meta.Safety = illust.Rating()
		return illust.TagNames()
	}
	return nil
}
