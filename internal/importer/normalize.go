package importer

import (
	"context"
	"log/slog"
	"strings"

	"szurutool/internal/sidecar"
	"szurutool/internal/sites"
	"szurutool/internal/tags"
)

// ArtistSearcher resolves an artist name to its canonical booru form.
type ArtistSearcher interface {
	SearchArtist(ctx context.Context, name string) (string, error)
}

// Normalizer turns raw sidecar metadata into an upload-ready tag list,
// fixing up safety and artist attribution along the way.
type Normalizer struct {
	search        ArtistSearcher
	defaultSafety string
	logger        *slog.Logger
}

// NewNormalizer creates a Normalizer. The searcher may be nil, in which
// case artist names are sanitized locally without a canonical lookup.
func NewNormalizer(search ArtistSearcher, defaultSafety string, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultSafety == "" {
		defaultSafety = sidecar.SafetySafe
	}
	return &Normalizer{search: search, defaultSafety: defaultSafety, logger: logger}
}

// SetTags derives the tag list for a downloaded file and updates the
// metadata's safety in place. Missing fields fall back to defaults; a
// sidecar with no tag information yields an empty list.
func (n *Normalizer) SetTags(ctx context.Context, site sites.Site, meta *sidecar.Metadata) []string {
	if meta.Rating != "" {
		meta.Safety = sidecar.ConvertRating(meta.Rating)
	} else if meta.Safety == "" {
		meta.Safety = n.defaultSafety
	}

	var list []string
	switch site {
	case sites.Fanbox, sites.EHentai, sites.Pixiv, sites.Twitter:
		artist := ""
		for _, tag := range meta.Tags {
			if name, ok := strings.CutPrefix(tag, "artist:"); ok && site == sites.EHentai {
				artist = name
				continue
			}
			list = append(list, tag)
		}
		if artist == "" {
			artist = extractArtist(site, meta)
		}
		if tags.Contains(list, "R-18") {
			meta.Safety = sidecar.SafetyUnsafe
			list = tags.Remove(list, []string{"R-18"})
		}
		if artist != "" {
			// Fallback sanitization rules differ per site upstream; keep
			// them distinct rather than unifying.
			fallback := strings.ReplaceAll(artist, " ", "_")
			if site == sites.EHentai {
				fallback = tags.SanitizeArtist(artist)
			}
			list = append(list, n.resolveArtist(ctx, artist, fallback))
		}
	default:
		if len(meta.Tags) > 0 {
			list = meta.Tags
		} else {
			list = meta.TagString
		}
	}
	return tags.Check(list)
}

func extractArtist(site sites.Site, meta *sidecar.Metadata) string {
	switch site {
	case sites.Pixiv, sites.Fanbox:
		return meta.User.Name
	case sites.Twitter:
		if meta.Author.Nick != "" {
			return meta.Author.Nick
		}
		return meta.Author.Name
	}
	return ""
}

// resolveArtist tries the canonical lookup with the raw name, retries with
// a sanitized variant, and falls back to the locally derived value when
// neither lookup resolves. Lookup failures are logged, never fatal.
func (n *Normalizer) resolveArtist(ctx context.Context, artist, fallback string) string {
	if n.search != nil {
		for _, candidate := range []string{artist, tags.SanitizeArtist(artist)} {
			name, err := n.search.SearchArtist(ctx, candidate)
			if err != nil {
				n.logger.Warn("artist lookup failed", "artist", candidate, "error", err)
				continue
			}
			if name != "" {
				return name
			}
		}
	}
	return fallback
}
