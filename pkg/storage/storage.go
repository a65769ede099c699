package storage

import "context"

// Store persists uploaded files and returns a stable path usable in the
// profile document. Keys are unique per upload; old files are never deleted
// here - superseded files are orphaned on purpose.
type Store interface {
	Save(ctx context.Context, key string, contentType string, data []byte) (string, error)
}
