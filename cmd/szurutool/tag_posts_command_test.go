package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTagPostsAllowsDashedQuery(t *testing.T) {
	var updated struct {
		payload map[string]any
		path    string
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/posts/":
			if got := r.URL.Query().Get("query"); got != "-tagme" {
				t.Fatalf("query = %q", got)
			}
			_, _ = io.WriteString(w, `{"total":1,"offset":0,"limit":100,"results":[
				{"id":3,"version":7,"safety":"safe","tags":[{"names":["old"],"category":"default"}]}]}`)
		case r.Method == http.MethodPut && r.URL.Path == "/api/post/3":
			updated.path = r.URL.Path
			if err := json.NewDecoder(r.Body).Decode(&updated.payload); err != nil {
				t.Fatalf("decode update: %v", err)
			}
			_, _ = io.WriteString(w, `{"id":3,"version":8,"safety":"safe"}`)
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	t.Cleanup(server.Close)

	configPath := writeConfig(t, server.URL)
	_, _, err := runCLI(t, "tag-posts", "--config", configPath, "--add-tags", "x, y", "-tagme")
	if err != nil {
		t.Fatalf("tag-posts: %v", err)
	}

	if updated.path != "/api/post/3" {
		t.Fatal("post update never reached the server")
	}
	if updated.payload["version"] != float64(7) {
		t.Fatalf("version = %v", updated.payload["version"])
	}
	tags, ok := updated.payload["tags"].([]any)
	if !ok || len(tags) != 3 || tags[0] != "old" || tags[1] != "x" || tags[2] != "y" {
		t.Fatalf("tags = %v", updated.payload["tags"])
	}
}

func TestTagPostsRequiresQuery(t *testing.T) {
	out, _, err := runCLI(t, "tag-posts")
	if err == nil {
		t.Fatal("expected error when query is missing")
	}
	requireContains(t, out, "Usage:")
}

func TestTagPostsRequiresSomethingToDo(t *testing.T) {
	_, _, err := runCLI(t, "tag-posts", "tagme")
	if err == nil {
		t.Fatal("expected error when no edits are requested")
	}
	requireContains(t, err.Error(), "nothing to do")
}

func TestTagPostsHelpShortCircuits(t *testing.T) {
	out, _, err := runCLI(t, "tag-posts", "-h")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	requireContains(t, out, "tag-posts")
}
