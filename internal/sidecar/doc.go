// Package sidecar models the per-file metadata JSON the downloader writes
// next to each downloaded post.
//
// Sidecar shapes vary by origin site: tags arrive as arrays or as a single
// whitespace-delimited string, the user field may be an object or a bare id,
// and most fields are optional. Parsing is therefore tolerant; derived fields
// (Site, Source, Safety) are filled in by the import pipeline after parsing.
package sidecar
