package sites_test

import (
	"testing"

	"szurutool/internal/sites"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		urls []string
		want sites.Site
		ok   bool
	}{
		{
			name: "danbooru post",
			urls: []string{"https://danbooru.donmai.us/posts/1"},
			want: sites.Danbooru,
			ok:   true,
		},
		{
			name: "yandere uses dotted keyword",
			urls: []string{"https://yande.re/post/show/5"},
			want: sites.Yandere,
			ok:   true,
		},
		{
			name: "fanbox wins over pixiv domain",
			urls: []string{"https://artist.fanbox.cc/posts/1"},
			want: sites.Fanbox,
			ok:   true,
		},
		{
			name: "first matching url decides",
			urls: []string{"https://example.com/x", "https://gelbooru.com/index.php?id=2"},
			want: sites.Gelbooru,
			ok:   true,
		},
		{
			name: "unknown",
			urls: []string{"https://example.com/post/1"},
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := sites.Detect(tc.urls)
			if ok != tc.ok {
				t.Fatalf("Detect ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Fatalf("Detect = %q, want %q", got, tc.want)
			}
		})
	}
}
