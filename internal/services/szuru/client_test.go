package szuru_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"szurutool/internal/services/szuru"
)

func newClient(t *testing.T, server *httptest.Server) *szuru.Client {
	t.Helper()
	client, err := szuru.New(server.URL, "user", "token")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewValidatesInputs(t *testing.T) {
	if _, err := szuru.New("", "user", "token"); err == nil {
		t.Fatal("expected error for missing base url")
	}
	if _, err := szuru.New("https://example.org", "", "token"); err == nil {
		t.Fatal("expected error for missing username")
	}
	if _, err := szuru.New("https://example.org", "user", ""); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestSearchPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wantAuth := "Token " + base64.StdEncoding.EncodeToString([]byte("user:token"))
		if got := r.Header.Get("Authorization"); got != wantAuth {
			t.Fatalf("unexpected auth header %q", got)
		}
		if r.URL.Path != "/api/posts/" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("query") != "solo" || r.URL.Query().Get("offset") != "0" {
			t.Fatalf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"total":2,"offset":0,"limit":100,"results":[
			{"id":1,"version":1,"safety":"safe","tags":[{"names":["solo"],"category":"default"}]},
			{"id":2,"version":3,"safety":"unsafe","tags":[]}]}`)
	}))
	t.Cleanup(server.Close)

	page, err := newClient(t, server).SearchPosts(context.Background(), "solo", 0, 0)
	if err != nil {
		t.Fatalf("SearchPosts returned error: %v", err)
	}
	if page.Total != 2 || len(page.Results) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if got := page.Results[0].TagNames(); len(got) != 1 || got[0] != "solo" {
		t.Fatalf("unexpected tag names: %v", got)
	}
}

func TestUpdatePostSendsVersion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/post/7" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload["version"] != float64(4) {
			t.Fatalf("version = %v", payload["version"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":7,"version":5,"safety":"safe"}`)
	}))
	t.Cleanup(server.Close)

	post, err := newClient(t, server).UpdatePost(context.Background(), szuru.UpdatePostRequest{
		ID:      7,
		Version: 4,
		Tags:    []string{"a", "b"},
		Safety:  "safe",
	})
	if err != nil {
		t.Fatalf("UpdatePost returned error: %v", err)
	}
	if post.Version != 5 {
		t.Fatalf("expected bumped version, got %d", post.Version)
	}
}

func TestGetTagEscapesName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.EscapedPath(), "/api/tag/") {
			t.Fatalf("unexpected path %q", r.URL.EscapedPath())
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"names":["long_hair"],"implications":[{"names":["hair"],"category":"default"}]}`)
	}))
	t.Cleanup(server.Close)

	tag, err := newClient(t, server).GetTag(context.Background(), "long_hair")
	if err != nil {
		t.Fatalf("GetTag returned error: %v", err)
	}
	if len(tag.Implications) != 1 || tag.Implications[0].PrimaryName() != "hair" {
		t.Fatalf("unexpected implications: %+v", tag.Implications)
	}
}

func TestUploadAndCreatePost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/uploads":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Fatalf("parse multipart: %v", err)
			}
			if _, _, err := r.FormFile("content"); err != nil {
				t.Fatalf("missing content part: %v", err)
			}
			_, _ = io.WriteString(w, `{"token":"tok123"}`)
		case "/api/posts/":
			var payload map[string]any
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("decode payload: %v", err)
			}
			if payload["contentToken"] != "tok123" {
				t.Fatalf("contentToken = %v", payload["contentToken"])
			}
			_, _ = io.WriteString(w, `{"id":10,"version":1,"safety":"unsafe"}`)
		default:
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
	}))
	t.Cleanup(server.Close)

	client := newClient(t, server)
	token, err := client.UploadTemporary(context.Background(), []byte("img"), "file.png")
	if err != nil {
		t.Fatalf("UploadTemporary returned error: %v", err)
	}
	post, err := client.CreatePost(context.Background(), szuru.CreatePostRequest{
		Tags:         []string{"a"},
		Safety:       "unsafe",
		ContentToken: token,
	})
	if err != nil {
		t.Fatalf("CreatePost returned error: %v", err)
	}
	if post.ID != 10 {
		t.Fatalf("post id = %d", post.ID)
	}
}

func TestReverseSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/posts/reverse-search" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"exactPost":{"id":3,"version":1},"similarPosts":[]}`)
	}))
	t.Cleanup(server.Close)

	result, err := newClient(t, server).ReverseSearch(context.Background(), []byte("img"), "file.png")
	if err != nil {
		t.Fatalf("ReverseSearch returned error: %v", err)
	}
	if result.ExactPost == nil || result.ExactPost.ID != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestAPIErrorIncludesName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"name":"IntegrityError","description":"version mismatch"}`)
	}))
	t.Cleanup(server.Close)

	_, err := newClient(t, server).UpdatePost(context.Background(), szuru.UpdatePostRequest{ID: 1, Version: 1})
	if err == nil || !strings.Contains(err.Error(), "IntegrityError") {
		t.Fatalf("expected named API error, got %v", err)
	}
}
