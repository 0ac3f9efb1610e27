// Package saucenao performs reverse image lookups against the SauceNAO
// API. Results carry per-database post ids so callers can fetch richer
// metadata from the matching booru.
package saucenao
