package sidecar_test

import (
	"reflect"
	"testing"

	"szurutool/internal/sidecar"
	"szurutool/internal/testsupport"
)

func TestParseTagArray(t *testing.T) {
	meta, err := sidecar.Parse([]byte(`{"id": 42, "tags": ["R-18", "original"], "user": {"id": 7, "name": "Artist"}}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !reflect.DeepEqual([]string(meta.Tags), []string{"R-18", "original"}) {
		t.Fatalf("unexpected tags: %v", meta.Tags)
	}
	if meta.User.Name != "Artist" {
		t.Fatalf("unexpected user name: %q", meta.User.Name)
	}
}

func TestParseTagString(t *testing.T) {
	meta, err := sidecar.Parse([]byte(`{"tags": "a b c"}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !reflect.DeepEqual([]string(meta.Tags), []string{"a", "b", "c"}) {
		t.Fatalf("expected whitespace split, got %v", meta.Tags)
	}
}

func TestParseTagStringField(t *testing.T) {
	meta, err := sidecar.Parse([]byte(`{"tag_string": "x y"}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(meta.Tags) != 0 {
		t.Fatalf("tags should be empty, got %v", meta.Tags)
	}
	if !reflect.DeepEqual([]string(meta.TagString), []string{"x", "y"}) {
		t.Fatalf("unexpected tag_string: %v", meta.TagString)
	}
	if !meta.HasTags() {
		t.Fatal("HasTags should report true for tag_string sidecars")
	}
}

func TestParseKemonoUserString(t *testing.T) {
	meta, err := sidecar.Parse([]byte(`{"id": "99", "service": "patreon", "user": "12345"}`))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if meta.User.Account != "12345" {
		t.Fatalf("unexpected user account: %q", meta.User.Account)
	}
	if meta.HasTags() {
		t.Fatal("HasTags should report false without tag fields")
	}
}

func TestParseRejectsInvalidTags(t *testing.T) {
	if _, err := sidecar.Parse([]byte(`{"tags": 7}`)); err == nil {
		t.Fatal("expected error for numeric tags field")
	}
}

func TestLoadReadsSidecarFile(t *testing.T) {
	path := testsupport.WriteSidecar(t, t.TempDir(), "a.png", `{"id": 5, "rating": "s", "tags": "x y"}`)

	meta, err := sidecar.Load(path + ".json")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if string(meta.ID) != "5" || len(meta.Tags) != 2 {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := sidecar.Load(t.TempDir() + "/missing.json"); err == nil {
		t.Fatal("expected error for missing sidecar")
	}
}
