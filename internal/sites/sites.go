package sites

import "strings"

// Site identifies a supported origin site.
type Site string

// Supported origin sites.
const (
	Sankaku  Site = "sankaku"
	Danbooru Site = "danbooru"
	Gelbooru Site = "gelbooru"
	Konachan Site = "konachan"
	Yandere  Site = "yandere"
	EHentai  Site = "e-hentai"
	Twitter  Site = "twitter"
	Kemono   Site = "kemono"
	Fanbox   Site = "fanbox"
	Pixiv    Site = "pixiv"
)

// Entry associates a site with its URL keyword.
type Entry struct {
	Site    Site
	Keyword string
}

// Dispatch is the ordered site lookup table. Order matters: yande.re must be
// probed before generic keywords and fanbox before pixiv (fanbox URLs can
// carry a pixiv domain).
var Dispatch = []Entry{
	{Site: Sankaku, Keyword: "sankaku"},
	{Site: Danbooru, Keyword: "danbooru"},
	{Site: Gelbooru, Keyword: "gelbooru"},
	{Site: Konachan, Keyword: "konachan"},
	{Site: Yandere, Keyword: "yande.re"},
	{Site: EHentai, Keyword: "e-hentai"},
	{Site: Twitter, Keyword: "twitter"},
	{Site: Kemono, Keyword: "kemono"},
	{Site: Fanbox, Keyword: "fanbox"},
	{Site: Pixiv, Keyword: "pixiv"},
}

// Detect returns the site of the first URL matching a dispatch keyword.
func Detect(urls []string) (Site, bool) {
	for _, url := range urls {
		for _, entry := range Dispatch {
			if strings.Contains(url, entry.Keyword) {
				return entry.Site, true
			}
		}
	}
	return "", false
}
