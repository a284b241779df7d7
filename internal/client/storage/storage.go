package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/dmitrijs2005/vaultacks/internal/cryptox"
	"github.com/dmitrijs2005/vaultacks/internal/netx"
)

// PutOptions controls how PutFile stores a blob.
type PutOptions struct {
	// Encrypt seals the blob with the user's content key.
	Encrypt bool
	// WasString is recorded in the envelope when Encrypt is set.
	WasString bool
}

// GetOptions controls how GetFile returns a blob.
type GetOptions struct {
	// Decrypt opens a blob stored with PutOptions.Encrypt.
	Decrypt bool
}

// Storage is a user-scoped blob store with optional content encryption.
type Storage struct {
	backend    Backend
	key        []byte
	httpClient *http.Client
}

// Option configures Storage.
type Option func(*Storage)

// WithHTTPClient sets the client used by FetchURL.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Storage) { s.httpClient = c }
}

// New returns a Storage writing through backend and encrypting with key.
func New(backend Backend, key []byte, opts ...Option) *Storage {
	s := &Storage{backend: backend, key: key}
	for _, o := range opts {
		o(s)
	}
	return s
}

// PutFile stores data at path and returns the blob URL.
func (s *Storage) PutFile(ctx context.Context, path string, data []byte, opts PutOptions) (string, error) {
	payload := data
	if opts.Encrypt {
		sealed, err := cryptox.EncryptContent(data, s.key, opts.WasString)
		if err != nil {
			return "", fmt.Errorf("encrypt %s: %w", path, err)
		}
		payload = sealed
	}

	url, err := s.backend.Put(ctx, path, payload)
	if err != nil {
		return "", fmt.Errorf("put %s: %w", path, err)
	}
	return url, nil
}

// GetFile loads the blob at path. A missing blob yields common.ErrorNotFound.
func (s *Storage) GetFile(ctx context.Context, path string, opts GetOptions) ([]byte, error) {
	data, err := s.backend.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	if !opts.Decrypt {
		return data, nil
	}

	plain, _, err := cryptox.DecryptContent(data, s.key)
	if err != nil {
		return nil, fmt.Errorf("decrypt %s: %w", path, err)
	}
	return plain, nil
}

// DeleteFile removes the blob at path.
func (s *Storage) DeleteFile(ctx context.Context, path string) error {
	if err := s.backend.Delete(ctx, path); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// ListFiles returns every blob path the user owns.
func (s *Storage) ListFiles(ctx context.Context) ([]string, error) {
	paths, err := s.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return paths, nil
}

// Presign returns a time-limited download link for path, or
// common.ErrUnsupported when the backend can't produce one.
func (s *Storage) Presign(ctx context.Context, path string, ttl time.Duration) (string, error) {
	p, ok := s.backend.(Presigner)
	if !ok {
		return "", common.ErrUnsupported
	}
	return p.Presign(ctx, path, ttl)
}

// FetchURL downloads a blob by its URL as recorded in metadata. file:// URLs
// produced by the filesystem backend are read directly.
func (s *Storage) FetchURL(ctx context.Context, url string) ([]byte, error) {
	if local, ok := strings.CutPrefix(url, "file://"); ok {
		data, err := os.ReadFile(local)
		if os.IsNotExist(err) {
			return nil, common.ErrorNotFound
		}
		return data, err
	}
	return netx.Fetch(ctx, s.httpClient, url)
}
