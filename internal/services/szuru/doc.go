// Package szuru is the HTTP client for the target szurubooru instance.
//
// It covers the operations the pipelines need: paged post search, per-post
// version-checked updates, tag lookups (for implication expansion), content
// upload and post creation, and reverse search for duplicate detection.
package szuru
