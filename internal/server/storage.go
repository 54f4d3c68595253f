package server

import (
	"context"
	"io"
)

// BlobStore keeps uploaded images and serves them from a public URL
type BlobStore interface {
	// Put stores size bytes from r under key
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// PublicURL returns the browser-reachable URL for key
	PublicURL(key string) string
	// Ping checks that the backing bucket is reachable
	Ping(ctx context.Context) error
}
