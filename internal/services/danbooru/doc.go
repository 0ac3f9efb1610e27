// Package danbooru looks up canonical artist names and post tags on
// Danbooru. Credentials are optional; anonymous requests work within
// Danbooru's public rate limits.
package danbooru
