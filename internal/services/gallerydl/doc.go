// Package gallerydl wraps the external gallery-dl downloader.
//
// The CLI client assembles the argument list the import pipeline needs
// (range selector, optional credentials, cookies, input file) and runs the
// binary to completion. Sidecar metadata comes from --write-metadata; the
// per-run download directory is supplied by the caller.
package gallerydl
