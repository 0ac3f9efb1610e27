// Package importer drives the URL import pipeline: it invokes the
// downloader, normalizes each file's sidecar metadata, and uploads the
// results to the configured szurubooru instance.
package importer
