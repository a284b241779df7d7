package cache

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/vaultacks/internal/client/models"
	"github.com/dmitrijs2005/vaultacks/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/dmitrijs2005/vaultacks/internal/cryptox"
)

const (
	privateDocPrefix = "private:"
	publicDocName    = "public"
)

// Documents stores the last known private and overview documents. Bodies are
// sealed with the same keys that protect them remotely.
type Documents struct {
	repo metadata.Repository
	now  func() time.Time
}

// NewDocuments returns a Documents cache over repo.
func NewDocuments(repo metadata.Repository) *Documents {
	return &Documents{repo: repo, now: time.Now}
}

// SavePrivate caches address's private document.
func (d *Documents) SavePrivate(ctx context.Context, address string, key []byte, doc *models.PrivateMetadata) error {
	body, err := cryptox.SealJSON(doc, key)
	if err != nil {
		return err
	}
	return d.repo.Put(ctx, metadata.Document{Name: privateDocPrefix + address, Body: body, UpdatedAt: d.now()})
}

// LoadPrivate returns the cached private document. A missing entry yields an
// empty document and a zero time.
func (d *Documents) LoadPrivate(ctx context.Context, address string, key []byte) (*models.PrivateMetadata, time.Time, error) {
	rec, err := d.repo.Get(ctx, privateDocPrefix+address)
	if errors.Is(err, common.ErrorNotFound) {
		return models.NewPrivateMetadata(), time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}

	doc := models.NewPrivateMetadata()
	if err := cryptox.OpenJSON(rec.Body, key, doc); err != nil {
		return nil, time.Time{}, err
	}
	doc.Normalize()
	return doc, rec.UpdatedAt, nil
}

// SavePublic caches the overview document with its server version.
func (d *Documents) SavePublic(ctx context.Context, sharedKey []byte, doc *models.PublicMetadata, version int64) error {
	body, err := cryptox.SealJSON(doc, sharedKey)
	if err != nil {
		return err
	}
	return d.repo.Put(ctx, metadata.Document{Name: publicDocName, Body: body, Version: version, UpdatedAt: d.now()})
}

// LoadPublic returns the cached overview document and its version.
func (d *Documents) LoadPublic(ctx context.Context, sharedKey []byte) (*models.PublicMetadata, int64, error) {
	rec, err := d.repo.Get(ctx, publicDocName)
	if errors.Is(err, common.ErrorNotFound) {
		return models.NewPublicMetadata(), 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	doc := models.NewPublicMetadata()
	if err := cryptox.OpenJSON(rec.Body, sharedKey, doc); err != nil {
		return nil, 0, err
	}
	doc.Normalize()
	return doc, rec.Version, nil
}

// Forget drops address's private snapshot, used on logout.
func (d *Documents) Forget(ctx context.Context, address string) error {
	return d.repo.Delete(ctx, privateDocPrefix+address)
}
