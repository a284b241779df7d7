package overview

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/dmitrijs2005/vaultacks/internal/server/models"
)

// MemoryRepository keeps overviews in process memory. It backs the server
// when no database DSN is configured.
type MemoryRepository struct {
	mu   sync.Mutex
	docs map[string]models.Overview
	now  func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: map[string]models.Overview{}, now: time.Now}
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Overview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.docs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	o.Body = append([]byte(nil), o.Body...)
	return &o, nil
}

func (r *MemoryRepository) Put(_ context.Context, id string, body []byte, expected int64, author string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.docs[id].Version
	if current != expected {
		return 0, common.ErrVersionConflict
	}

	next := current + 1
	r.docs[id] = models.Overview{
		ID:        id,
		Body:      append([]byte(nil), body...),
		Version:   next,
		UpdatedBy: author,
		UpdatedAt: r.now(),
	}
	return next, nil
}
