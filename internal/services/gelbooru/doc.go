// Package gelbooru fetches post metadata from Gelbooru's dapi endpoint.
package gelbooru
