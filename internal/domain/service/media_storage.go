package service

import (
	"context"
	"io"
)

// MediaStorage defines the interface for storing uploaded media files
// (avatars, cover images, videos, thumbnails) and resolving their public URLs.
type MediaStorage interface {
	// Upload stores the content under the given key and returns its public URL.
	Upload(ctx context.Context, key, contentType string, content io.Reader) (string, error)

	// Delete removes a previously stored object. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
