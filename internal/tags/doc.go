// Package tags holds the tag-string rules shared by the import and tag
// pipelines.
//
// Canonicalization is deliberately uneven across call sites: the Danbooru
// retry path lower-cases and underscores artist names, while the local
// fallback only replaces spaces. Each upstream site established its own
// convention and the pipelines preserve them rather than unifying.
package tags
