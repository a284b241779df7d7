// Package overview stores the shared overview documents of the server.
package overview

import (
	"context"

	"github.com/dmitrijs2005/vaultacks/internal/server/models"
)

// Repository persists overview envelopes with optimistic versioning.
//
// Get returns common.ErrorNotFound for a document that was never written.
// Put stores body when the current version equals expected (0 for a new
// document) and returns the new version; otherwise it returns
// common.ErrVersionConflict and leaves the document untouched.
type Repository interface {
	Get(ctx context.Context, id string) (*models.Overview, error)
	Put(ctx context.Context, id string, body []byte, expected int64, author string) (int64, error)
}
