// Package history records which sources have already been imported so
// repeat runs skip files a previous run uploaded.
package history
