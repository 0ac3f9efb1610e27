package sidecar

import (
	"fmt"

	"szurutool/internal/sites"
)

// SourceURL builds the canonical attribution URL for a downloaded post from
// its sidecar identifiers. Sidecars missing the expected id fields yield the
// raw file URL, or an empty string when that is absent too.
func SourceURL(site sites.Site, m *Metadata) string {
	switch site {
	case sites.Pixiv:
		if m.ID != "" {
			return fmt.Sprintf("https://www.pixiv.net/artworks/%s", m.ID)
		}
	case sites.Danbooru:
		if m.ID != "" {
			return fmt.Sprintf("https://danbooru.donmai.us/posts/%s", m.ID)
		}
	case sites.Gelbooru:
		if m.ID != "" {
			return fmt.Sprintf("https://gelbooru.com/index.php?page=post&s=view&id=%s", m.ID)
		}
	case sites.Sankaku:
		if m.ID != "" {
			return fmt.Sprintf("https://chan.sankakucomplex.com/post/show/%s", m.ID)
		}
	case sites.Konachan:
		if m.ID != "" {
			return fmt.Sprintf("https://konachan.com/post/show/%s", m.ID)
		}
	case sites.Yandere:
		if m.ID != "" {
			return fmt.Sprintf("https://yande.re/post/show/%s", m.ID)
		}
	case sites.Twitter:
		if m.Author.Name != "" && m.TweetID != "" {
			return fmt.Sprintf("https://twitter.com/%s/status/%s", m.Author.Name, m.TweetID)
		}
	case sites.EHentai:
		if m.GalleryID != "" && m.GalleryToken != "" {
			return fmt.Sprintf("https://e-hentai.org/g/%s/%s", m.GalleryID, m.GalleryToken)
		}
	case sites.Kemono:
		if m.Service != "" && m.User.Account != "" && m.ID != "" {
			return fmt.Sprintf("https://kemono.su/%s/user/%s/post/%s", m.Service, m.User.Account, m.ID)
		}
	case sites.Fanbox:
		if m.CreatorID != "" && m.ID != "" {
			return fmt.Sprintf("https://www.fanbox.cc/@%s/posts/%s", m.CreatorID, m.ID)
		}
	}
	return m.FileURL
}
