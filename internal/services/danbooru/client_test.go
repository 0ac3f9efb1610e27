package danbooru_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"szurutool/internal/services/danbooru"
)

func TestSearchArtistFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/artists.json" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("search[any_name_matches]"); got != "John Doe" {
			t.Fatalf("unexpected search value %q", got)
		}
		_, _ = io.WriteString(w, `[{"name":"john_doe"}]`)
	}))
	t.Cleanup(server.Close)

	client, err := danbooru.New(server.URL, "", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	name, err := client.SearchArtist(context.Background(), "John Doe")
	if err != nil {
		t.Fatalf("SearchArtist returned error: %v", err)
	}
	if name != "john_doe" {
		t.Fatalf("name = %q", name)
	}
}

func TestSearchArtistEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(server.Close)

	client, err := danbooru.New(server.URL, "", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	name, err := client.SearchArtist(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("SearchArtist returned error: %v", err)
	}
	if name != "" {
		t.Fatalf("expected empty name, got %q", name)
	}
}

func TestSearchArtistSkipsBlankName(t *testing.T) {
	client, err := danbooru.New("https://danbooru.donmai.us", "", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	name, err := client.SearchArtist(context.Background(), "  ")
	if err != nil || name != "" {
		t.Fatalf("blank lookup should be a no-op, got %q/%v", name, err)
	}
}

func TestGetPostTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/posts/123.json" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"id":123,"tag_string":"1girl solo artist_name","rating":"s"}`)
	}))
	t.Cleanup(server.Close)

	client, err := danbooru.New(server.URL, "user", "key")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	post, err := client.GetPost(context.Background(), 123)
	if err != nil {
		t.Fatalf("GetPost returned error: %v", err)
	}
	if tags := post.Tags(); len(tags) != 3 || tags[0] != "1girl" {
		t.Fatalf("unexpected tags: %v", tags)
	}
}

func TestPostIDFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want int64
		ok   bool
	}{
		{"https://danbooru.donmai.us/posts/12345", 12345, true},
		{"https://danbooru.donmai.us/posts?id=678", 678, true},
		{"https://danbooru.donmai.us/posts/abc", 0, false},
	}
	for _, tc := range cases {
		got, err := danbooru.PostIDFromURL(tc.url)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("PostIDFromURL(%q) = %d, %v; want %d", tc.url, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("PostIDFromURL(%q) should fail", tc.url)
		}
	}
}
