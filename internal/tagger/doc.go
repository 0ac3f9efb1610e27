// Package tagger drives the tag pipeline: it searches the target booru
// for posts matching a query and applies add, remove, overwrite, and
// implication-expansion edits to each one.
package tagger
