// Package services contains application services for the Vaultacks client.
// FileService keeps the user's private index and the shared overview in sync
// with the blobs they describe.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/vaultacks/internal/client/models"
	"github.com/dmitrijs2005/vaultacks/internal/client/storage"
	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/dmitrijs2005/vaultacks/internal/cryptox"
	"github.com/dmitrijs2005/vaultacks/internal/logging"
)

// Messages shown when a refresh fails.
const (
	FetchErrorTitle   = "Error fetching files"
	FetchErrorMessage = "Something went wrong when fetching the files. Please try again later"
)

// BlobStore is the user-scoped private store.
type BlobStore interface {
	PutFile(ctx context.Context, path string, data []byte, opts storage.PutOptions) (string, error)
	GetFile(ctx context.Context, path string, opts storage.GetOptions) ([]byte, error)
	DeleteFile(ctx context.Context, path string) error
	ListFiles(ctx context.Context) ([]string, error)
	Presign(ctx context.Context, path string, ttl time.Duration) (string, error)
	FetchURL(ctx context.Context, url string) ([]byte, error)
}

// OverviewStore holds the shared overview envelope and its version.
type OverviewStore interface {
	Get(ctx context.Context) ([]byte, int64, error)
	Put(ctx context.Context, body []byte, version int64) (int64, error)
}

// DocumentCache keeps the last refreshed documents for offline listing.
type DocumentCache interface {
	SavePrivate(ctx context.Context, address string, key []byte, doc *models.PrivateMetadata) error
	LoadPrivate(ctx context.Context, address string, key []byte) (*models.PrivateMetadata, time.Time, error)
	SavePublic(ctx context.Context, sharedKey []byte, doc *models.PublicMetadata, version int64) error
	LoadPublic(ctx context.Context, sharedKey []byte) (*models.PublicMetadata, int64, error)
}

// Notifier shows a short user-facing message.
type Notifier interface {
	Notify(title, message string)
}

// Source tells where a FileInfo was found.
type Source int

const (
	SourcePrivate Source = iota
	SourcePublic
)

// FileInfo is the result of a metadata lookup. UserAddress is set for
// records coming from the overview.
type FileInfo struct {
	models.PrivateFileRecord
	UserAddress string
	Source      Source
}

// FileService is the metadata synchronizer.
//
// Save, Delete and Share always fetch both documents fresh before mutating
// them and call Refresh afterwards. None of them is transactional: a failure
// midway leaves whatever was already written.
type FileService interface {
	Refresh(ctx context.Context) error
	Save(ctx context.Context, path string, data []byte, isPublic, isString bool) (string, error)
	Delete(ctx context.Context, path string) error
	Share(ctx context.Context, path string) error
	GetFileMetadata(path string) (*FileInfo, error)
	GetFile(ctx context.Context, path string) (*FileInfo, []byte, error)
	DeleteAll(ctx context.Context) (int, error)
	ResetOverview(ctx context.Context) error
	Link(ctx context.Context, path string, ttl time.Duration) (string, error)

	Private() *models.PrivateMetadata
	Public() *models.PublicMetadata
	Refreshing() bool
	LastRefresh() time.Time
	Cached(ctx context.Context) (*models.PrivateMetadata, *models.PublicMetadata, error)
	Address() string
}

// FileServiceConfig wires a FileService. Cache and Notifier are optional.
type FileServiceConfig struct {
	Address        string
	UserKey        []byte
	SharedKey      []byte
	Blobs          BlobStore
	Overview       OverviewStore
	Cache          DocumentCache
	Notifier       Notifier
	Logger         logging.Logger
	RequestTimeout time.Duration
}

type fileService struct {
	address   string
	userKey   []byte
	sharedKey []byte
	blobs     BlobStore
	overview  OverviewStore
	cache     DocumentCache
	notifier  Notifier
	log       logging.Logger
	timeout   time.Duration
	now       func() time.Time

	// commitMu orders the commit of refresh results, the cache writes
	// included, so an older refresh never lands after a newer one.
	commitMu sync.Mutex

	mu          sync.Mutex
	private     *models.PrivateMetadata
	public      *models.PublicMetadata
	inflight    int
	started     uint64
	committed   uint64
	lastRefresh time.Time
}

// NewFileService returns a FileService for one logged-in user.
func NewFileService(cfg FileServiceConfig) FileService {
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &fileService{
		address:   cfg.Address,
		userKey:   cfg.UserKey,
		sharedKey: cfg.SharedKey,
		blobs:     cfg.Blobs,
		overview:  cfg.Overview,
		cache:     cfg.Cache,
		notifier:  cfg.Notifier,
		log:       log.With("component", "files", "address", cfg.Address),
		timeout:   cfg.RequestTimeout,
		now:       time.Now,
		private:   models.NewPrivateMetadata(),
		public:    models.NewPublicMetadata(),
	}
}

// call runs fn with the per-request timeout applied.
func (s *fileService) call(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return fn(ctx)
}

// cleanPath normalises a logical file path and rejects the reserved
// metadata location.
func cleanPath(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", common.ErrInvalidPath
	}
	p = strings.TrimLeft(path.Clean("/"+p), "/")
	if p == "" || p == common.PrivateMetadataPath || strings.HasPrefix(p, path.Dir(common.PrivateMetadataPath)+"/") {
		return "", fmt.Errorf("%w: %s", common.ErrInvalidPath, p)
	}
	return p, nil
}

func (s *fileService) fetchPrivate(ctx context.Context) (*models.PrivateMetadata, error) {
	var plain []byte
	err := s.call(ctx, func(ctx context.Context) (err error) {
		plain, err = s.blobs.GetFile(ctx, common.PrivateMetadataPath, storage.GetOptions{Decrypt: true})
		return err
	})
	if errors.Is(err, common.ErrorNotFound) {
		return models.NewPrivateMetadata(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch private metadata: %w", err)
	}

	doc := models.NewPrivateMetadata()
	if err := json.Unmarshal(plain, doc); err != nil {
		return nil, fmt.Errorf("decode private metadata: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

func (s *fileService) fetchPublic(ctx context.Context) (*models.PublicMetadata, int64, error) {
	var body []byte
	var version int64
	err := s.call(ctx, func(ctx context.Context) (err error) {
		body, version, err = s.overview.Get(ctx)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("fetch overview: %w", err)
	}

	doc := models.NewPublicMetadata()
	if body == nil {
		return doc, version, nil
	}
	if err := cryptox.OpenJSON(body, s.sharedKey, doc); err != nil {
		return nil, 0, fmt.Errorf("decode overview: %w", err)
	}
	doc.Normalize()
	return doc, version, nil
}

func (s *fileService) fetchBoth(ctx context.Context) (*models.PrivateMetadata, *models.PublicMetadata, int64, error) {
	priv, err := s.fetchPrivate(ctx)
	if err != nil {
		return nil, nil, 0, err
	}
	pub, version, err := s.fetchPublic(ctx)
	if err != nil {
		return nil, nil, 0, err
	}
	return priv, pub, version, nil
}

func (s *fileService) writePrivate(ctx context.Context, doc *models.PrivateMetadata) error {
	plain, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	err = s.call(ctx, func(ctx context.Context) error {
		_, err := s.blobs.PutFile(ctx, common.PrivateMetadataPath, plain, storage.PutOptions{Encrypt: true, WasString: true})
		return err
	})
	if err != nil {
		return fmt.Errorf("write private metadata: %w", err)
	}
	return nil
}

func (s *fileService) writePublic(ctx context.Context, doc *models.PublicMetadata, version int64) error {
	sealed, err := cryptox.SealJSON(doc, s.sharedKey)
	if err != nil {
		return err
	}
	err = s.call(ctx, func(ctx context.Context) error {
		_, err := s.overview.Put(ctx, sealed, version)
		return err
	})
	if err != nil {
		return fmt.Errorf("write overview: %w", err)
	}
	return nil
}

func (s *fileService) beginRefresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	s.started++
	return s.started
}

func (s *fileService) endRefresh() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

// Refresh loads both documents into memory. On failure the notifier shows
// the generic fetch error and the returned error wraps common.ErrFetchFailed.
// A refresh that started before an already committed one drops its result.
func (s *fileService) Refresh(ctx context.Context) error {
	gen := s.beginRefresh()
	defer s.endRefresh()

	priv, pub, version, err := s.fetchBoth(ctx)
	if err != nil {
		s.log.Error(ctx, "refresh failed", "error", err)
		if s.notifier != nil {
			s.notifier.Notify(FetchErrorTitle, FetchErrorMessage)
		}
		return fmt.Errorf("%w: %w", common.ErrFetchFailed, err)
	}

	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	if gen < s.committed {
		s.mu.Unlock()
		s.log.Debug(ctx, "stale refresh dropped", "generation", gen)
		return nil
	}
	s.committed = gen
	s.private = priv
	s.public = pub
	s.lastRefresh = s.now()
	s.mu.Unlock()

	s.log.Debug(ctx, "refreshed", "private", len(priv.Files), "public", len(pub.Files), "version", version)

	if s.cache != nil {
		if err := s.cache.SavePrivate(ctx, s.address, s.userKey, priv); err != nil {
			s.log.Warn(ctx, "cache private metadata", "error", err)
		}
		if err := s.cache.SavePublic(ctx, s.sharedKey, pub, version); err != nil {
			s.log.Warn(ctx, "cache overview", "error", err)
		}
	}
	return nil
}

// refreshAfter refreshes at the end of a mutation. A failed refresh is
// already reported through the notifier, so it does not fail the mutation.
func (s *fileService) refreshAfter(ctx context.Context) {
	_ = s.Refresh(ctx)
}

func (s *fileService) Save(ctx context.Context, p string, data []byte, isPublic, isString bool) (string, error) {
	p, err := cleanPath(p)
	if err != nil {
		return "", err
	}

	priv, pub, version, err := s.fetchBoth(ctx)
	if err != nil {
		return "", err
	}

	var url string
	err = s.call(ctx, func(ctx context.Context) (err error) {
		url, err = s.blobs.PutFile(ctx, p, data, storage.PutOptions{Encrypt: !isPublic, WasString: isString})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", p, err)
	}

	rec := models.PrivateFileRecord{
		Path:         p,
		IsPublic:     isPublic,
		IsString:     isString,
		LastModified: s.now().UTC(),
		URL:          url,
	}
	priv.Files[p] = rec

	writeOverview := false
	if isPublic {
		pub.Files[p] = models.PublicFileRecord{PrivateFileRecord: rec, UserAddress: s.address}
		writeOverview = true
	} else if old, ok := pub.Files[p]; ok && old.UserAddress == s.address {
		// a private save replaces our own earlier public copy
		delete(pub.Files, p)
		writeOverview = true
	}

	if err := s.writePrivate(ctx, priv); err != nil {
		return "", err
	}
	if writeOverview {
		if err := s.writePublic(ctx, pub, version); err != nil {
			return "", err
		}
	}

	s.log.Info(ctx, "file saved", "path", p, "public", isPublic, "string", isString)
	s.refreshAfter(ctx)
	return url, nil
}

func (s *fileService) Delete(ctx context.Context, p string) error {
	p, err := cleanPath(p)
	if err != nil {
		return err
	}

	priv, pub, version, err := s.fetchBoth(ctx)
	if err != nil {
		return err
	}

	_, inPrivate := priv.Files[p]
	pubRec, inPublic := pub.Files[p]
	ownPublic := inPublic && pubRec.UserAddress == s.address
	if !inPrivate && !ownPublic {
		return fmt.Errorf("%s: %w", p, common.ErrorNotFound)
	}

	delete(priv.Files, p)
	if ownPublic {
		delete(pub.Files, p)
	}

	if err := s.call(ctx, func(ctx context.Context) error { return s.blobs.DeleteFile(ctx, p) }); err != nil {
		return fmt.Errorf("delete blob %s: %w", p, err)
	}

	if err := s.writePrivate(ctx, priv); err != nil {
		return err
	}
	if ownPublic {
		if err := s.writePublic(ctx, pub, version); err != nil {
			return err
		}
	}

	s.log.Info(ctx, "file deleted", "path", p)
	s.refreshAfter(ctx)
	return nil
}

// Share turns a private file into a shared public one: the blob is
// re-encrypted with the shared key in place, then the record moves from the
// private index to the overview. The overview is written first so the file
// is always listed in at least one document.
func (s *fileService) Share(ctx context.Context, p string) error {
	p, err := cleanPath(p)
	if err != nil {
		return err
	}

	priv, pub, version, err := s.fetchBoth(ctx)
	if err != nil {
		return err
	}

	rec, ok := priv.Files[p]
	if !ok {
		return fmt.Errorf("%s: %w", p, common.ErrorNotFound)
	}
	if rec.IsPublic {
		return fmt.Errorf("%s: %w", p, common.ErrAlreadyPublic)
	}

	var plain []byte
	err = s.call(ctx, func(ctx context.Context) (err error) {
		plain, err = s.blobs.GetFile(ctx, p, storage.GetOptions{Decrypt: true})
		return err
	})
	if err != nil {
		return fmt.Errorf("read %s: %w", p, err)
	}

	sealed, err := cryptox.EncryptContent(plain, s.sharedKey, rec.IsString)
	common.WipeByteArray(plain)
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", p, err)
	}

	var url string
	err = s.call(ctx, func(ctx context.Context) (err error) {
		url, err = s.blobs.PutFile(ctx, p, sealed, storage.PutOptions{})
		return err
	})
	if err != nil {
		return fmt.Errorf("store shared %s: %w", p, err)
	}

	rec.IsPublic = true
	rec.Shared = true
	rec.URL = url
	rec.LastModified = s.now().UTC()

	pub.Files[p] = models.PublicFileRecord{PrivateFileRecord: rec, UserAddress: s.address}
	delete(priv.Files, p)

	if err := s.writePublic(ctx, pub, version); err != nil {
		return err
	}
	if err := s.writePrivate(ctx, priv); err != nil {
		return err
	}

	s.log.Info(ctx, "file shared", "path", p)
	s.refreshAfter(ctx)
	return nil
}

// GetFileMetadata looks p up in the last refreshed private document, then in
// the overview.
func (s *fileService) GetFileMetadata(p string) (*FileInfo, error) {
	p, err := cleanPath(p)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.private.Files[p]; ok {
		return &FileInfo{PrivateFileRecord: rec, Source: SourcePrivate}, nil
	}
	if rec, ok := s.public.Files[p]; ok {
		return &FileInfo{PrivateFileRecord: rec.PrivateFileRecord, UserAddress: rec.UserAddress, Source: SourcePublic}, nil
	}
	return nil, fmt.Errorf("%s: %w", p, common.ErrorNotFound)
}

// GetFile returns the metadata and the readable content of p. Private files
// are opened with the user key, shared files with the shared key; files saved
// public are returned as stored. Other users' files are fetched by URL.
func (s *fileService) GetFile(ctx context.Context, p string) (*FileInfo, []byte, error) {
	info, err := s.GetFileMetadata(p)
	if err != nil {
		return nil, nil, err
	}

	own := info.Source == SourcePrivate || info.UserAddress == s.address

	var data []byte
	err = s.call(ctx, func(ctx context.Context) (err error) {
		switch {
		case own:
			data, err = s.blobs.GetFile(ctx, info.Path, storage.GetOptions{Decrypt: !info.IsPublic})
		default:
			data, err = s.blobs.FetchURL(ctx, info.URL)
		}
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", info.Path, err)
	}

	if info.Shared {
		plain, _, err := cryptox.DecryptContent(data, s.sharedKey)
		if err != nil {
			return nil, nil, fmt.Errorf("open shared %s: %w", info.Path, err)
		}
		data = plain
	}
	return info, data, nil
}

// DeleteAll removes every blob the user owns, the private index included,
// and withdraws the user's records from the overview.
func (s *fileService) DeleteAll(ctx context.Context) (int, error) {
	var paths []string
	err := s.call(ctx, func(ctx context.Context) (err error) {
		paths, err = s.blobs.ListFiles(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}

	pub, version, err := s.fetchPublic(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, p := range paths {
		if err := s.call(ctx, func(ctx context.Context) error { return s.blobs.DeleteFile(ctx, p) }); err != nil {
			return deleted, fmt.Errorf("delete blob %s: %w", p, err)
		}
		deleted++
	}

	own := pub.ForUser(s.address)
	for _, r := range own {
		delete(pub.Files, r.Path)
	}
	if len(own) > 0 {
		if err := s.writePublic(ctx, pub, version); err != nil {
			return deleted, err
		}
	}

	s.log.Info(ctx, "all files deleted", "count", deleted)
	s.refreshAfter(ctx)
	return deleted, nil
}

// ResetOverview replaces the shared overview with an empty document.
func (s *fileService) ResetOverview(ctx context.Context) error {
	_, version, err := s.fetchPublic(ctx)
	if err != nil {
		return err
	}
	if err := s.writePublic(ctx, models.NewPublicMetadata(), version); err != nil {
		return err
	}

	s.log.Warn(ctx, "overview reset")
	s.refreshAfter(ctx)
	return nil
}

// Link returns a time-limited download URL for one of the user's files.
func (s *fileService) Link(ctx context.Context, p string, ttl time.Duration) (string, error) {
	info, err := s.GetFileMetadata(p)
	if err != nil {
		return "", err
	}
	if info.Source == SourcePublic && info.UserAddress != s.address {
		return info.URL, nil
	}

	var url string
	err = s.call(ctx, func(ctx context.Context) (err error) {
		url, err = s.blobs.Presign(ctx, info.Path, ttl)
		return err
	})
	return url, err
}

func (s *fileService) Private() *models.PrivateMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.private.Clone()
}

func (s *fileService) Public() *models.PublicMetadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.public.Clone()
}

func (s *fileService) Refreshing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}

func (s *fileService) LastRefresh() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRefresh
}

// Cached returns the documents saved by the last successful Refresh.
func (s *fileService) Cached(ctx context.Context) (*models.PrivateMetadata, *models.PublicMetadata, error) {
	if s.cache == nil {
		return nil, nil, common.ErrUnsupported
	}
	priv, _, err := s.cache.LoadPrivate(ctx, s.address, s.userKey)
	if err != nil {
		return nil, nil, err
	}
	pub, _, err := s.cache.LoadPublic(ctx, s.sharedKey)
	if err != nil {
		return nil, nil, err
	}
	return priv, pub, nil
}

func (s *fileService) Address() string {
	return s.address
}
