package tags

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ideographicSpace sometimes trails artist names returned by upstream APIs.
const ideographicSpace = "　"

var lowerCaser = cases.Lower(language.Und)

// Check trims, drops empty entries, and deduplicates a tag list while
// preserving first-occurrence order.
func Check(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, tag := range list {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// SplitCSV parses a comma-delimited tag flag, stripping all whitespace.
func SplitCSV(value string) []string {
	value = strings.ReplaceAll(value, " ", "")
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// SanitizeArtist lowers an artist name, replaces spaces with underscores,
// and strips the stray ideographic space some APIs append.
func SanitizeArtist(name string) string {
	name = lowerCaser.String(name)
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, ideographicSpace, "")
}

// Union appends every addition not already present, keeping existing order.
func Union(existing, additions []string) []string {
	seen := make(map[string]struct{}, len(existing))
	out := make([]string, 0, len(existing)+len(additions))
	for _, tag := range existing {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	for _, tag := range additions {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Remove filters out every tag present in the removal list.
func Remove(list, removals []string) []string {
	if len(removals) == 0 {
		return list
	}
	drop := make(map[string]struct{}, len(removals))
	for _, tag := range removals {
		drop[tag] = struct{}{}
	}
	out := make([]string, 0, len(list))
	for _, tag := range list {
		if _, ok := drop[tag]; ok {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// Contains reports whether the list holds the exact tag.
func Contains(list []string, tag string) bool {
	for _, candidate := range list {
		if candidate == tag {
			return true
		}
	}
	return false
}
