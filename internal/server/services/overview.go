// Package services contains server-side business logic. OverviewService
// guards reads and versioned writes of the shared overview documents.
package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/dmitrijs2005/vaultacks/internal/logging"
	"github.com/dmitrijs2005/vaultacks/internal/server/models"
	"github.com/dmitrijs2005/vaultacks/internal/server/repositories/overview"
)

// OverviewService reads and writes overview envelopes. The server never sees
// plaintext: bodies are opaque JSON envelopes sealed by the clients.
type OverviewService struct {
	repo overview.Repository
	log  logging.Logger
}

func NewOverviewService(repo overview.Repository, log logging.Logger) *OverviewService {
	if log == nil {
		log = logging.Discard()
	}
	return &OverviewService{repo: repo, log: log.With("component", "overview")}
}

// Get returns the stored document. A document that was never written is
// returned empty with version 0.
func (s *OverviewService) Get(ctx context.Context, id string) (*models.Overview, error) {
	o, err := s.repo.Get(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		return &models.Overview{ID: id}, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Put validates body and stores it if expected matches the current
// version. It returns the new version.
func (s *OverviewService) Put(ctx context.Context, id string, body []byte, expected int64, author string) (int64, error) {
	if len(body) == 0 {
		return 0, common.ErrEmptyBody
	}
	if !json.Valid(body) {
		return 0, common.ErrInvalidBody
	}

	next, err := s.repo.Put(ctx, id, body, expected, author)
	if err != nil {
		if errors.Is(err, common.ErrVersionConflict) {
			s.log.Info(ctx, "overview write rejected", "id", id, "expected", expected, "author", author)
		}
		return 0, err
	}

	s.log.Info(ctx, "overview written", "id", id, "version", next, "author", author, "bytes", len(body))
	return next, nil
}
