package storage

import (
	"context"
	"time"
)

// Backend stores raw blobs keyed by slash separated paths. Get returns
// common.ErrorNotFound for a missing path; Delete of a missing path is not an
// error.
type Backend interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Put(ctx context.Context, path string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
	List(ctx context.Context) ([]string, error)
}

// Presigner is implemented by backends that can hand out time-limited
// download links.
type Presigner interface {
	Presign(ctx context.Context, path string, ttl time.Duration) (string, error)
}
