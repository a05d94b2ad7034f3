package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// AvatarStore is the blob-store boundary for avatar binaries. The
// backend only keeps object keys; the bytes live elsewhere.
type AvatarStore interface {
	// Put stores the object under key with the given content type.
	Put(ctx context.Context, key, contentType string, body io.Reader) error

	// URL returns a URL from which the object can be fetched.
	URL(ctx context.Context, key string) (string, error)
}

// NewObjectKey returns a fresh storage key for an uploaded avatar.
func NewObjectKey() string {
	return fmt.Sprintf("avatars/%v", uuid.New())
}
