// Package testsupport provides shared helpers for tests: config builders,
// sidecar fixtures, and stub downloader binaries.
package testsupport
