package sidecar

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// StringList accepts either a JSON array of strings or a single
// whitespace-delimited string.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("tag list is neither array nor string: %w", err)
	}
	*l = strings.Fields(single)
	return nil
}

// User covers the uploader field, which is an object on pixiv and fanbox
// sidecars but a bare account id string on kemono ones.
type User struct {
	ID      json.Number
	Name    string
	Account string
}

func (u *User) UnmarshalJSON(data []byte) error {
	var account string
	if err := json.Unmarshal(data, &account); err == nil {
		u.Account = account
		return nil
	}
	var obj struct {
		ID      json.Number `json:"id"`
		Name    string      `json:"name"`
		Account string      `json:"account"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("user field: %w", err)
	}
	u.ID = obj.ID
	u.Name = obj.Name
	u.Account = obj.Account
	return nil
}

// Author is the tweet author block on twitter sidecars.
type Author struct {
	Name string `json:"name"`
	Nick string `json:"nick"`
}

// Metadata is a post metadata record: the raw sidecar fields plus the
// derived fields the upload call consumes.
type Metadata struct {
	ID           json.Number `json:"id"`
	GalleryID    json.Number `json:"gid"`
	GalleryToken string      `json:"token"`
	TweetID      json.Number `json:"tweet_id"`
	Service      string      `json:"service"`
	CreatorID    string      `json:"creatorId"`
	Rating       string      `json:"rating"`
	FileURL      string      `json:"file_url"`
	Tags         StringList  `json:"tags"`
	TagString    StringList  `json:"tag_string"`
	User         User        `json:"user"`
	Author       Author      `json:"author"`

	// Derived during import, not part of the sidecar.
	Site   string `json:"-"`
	Source string `json:"-"`
	Safety string `json:"-"`
}

// Parse decodes a sidecar JSON document.
func Parse(data []byte) (*Metadata, error) {
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse sidecar: %w", err)
	}
	return &meta, nil
}

// Load reads and decodes the sidecar file at path.
func Load(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sidecar %s: %w", path, err)
	}
	return Parse(data)
}

// HasTags reports whether the sidecar carried any tag field at all.
func (m *Metadata) HasTags() bool {
	return len(m.Tags) > 0 || len(m.TagString) > 0
}
