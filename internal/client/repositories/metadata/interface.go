package metadata

import (
	"context"
	"time"
)

// Document is one cached, still encrypted, metadata document.
type Document struct {
	Name      string
	Body      []byte
	Version   int64
	UpdatedAt time.Time
}

// Repository stores cached documents by name. Get returns
// common.ErrorNotFound when the name is absent.
type Repository interface {
	Get(ctx context.Context, name string) (*Document, error)
	Put(ctx context.Context, doc Document) error
	Delete(ctx context.Context, name string) error
	Clear(ctx context.Context) error
}
