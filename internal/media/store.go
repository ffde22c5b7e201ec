// Package media stores uploaded media blobs and hands back opaque
// references the content services attach to posts and stories.
package media

import "context"

// Store persists media bytes and returns a stable reference URL.
type Store interface {
	Store(ctx context.Context, data []byte, contentType, ownerID string) (string, error)
}
