package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dmitrijs2005/vaultacks/internal/common"
	"github.com/dmitrijs2005/vaultacks/internal/filex"
)

// FSBackend stores blobs as files under <root>/<address>/.
type FSBackend struct {
	dir string
}

// NewFSBackend creates (if needed) the user's directory under root.
func NewFSBackend(root, address string) (*FSBackend, error) {
	if address == "" {
		return nil, errors.New("fs backend: empty address")
	}
	dir, err := filex.EnsureDir(filepath.Join(root, address))
	if err != nil {
		return nil, err
	}
	return &FSBackend{dir: dir}, nil
}

func (b *FSBackend) Get(_ context.Context, path string) ([]byte, error) {
	full, err := filex.SafeJoin(b.dir, path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, common.ErrorNotFound
	}
	return data, err
}

func (b *FSBackend) Put(_ context.Context, path string, data []byte) (string, error) {
	full, err := filex.SafeJoin(b.dir, path)
	if err != nil {
		return "", err
	}

	if err := filex.WriteFileAtomic(full, data); err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(full), nil
}

func (b *FSBackend) Delete(_ context.Context, path string) error {
	full, err := filex.SafeJoin(b.dir, path)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (b *FSBackend) List(_ context.Context) ([]string, error) {
	var out []string

	err := filepath.WalkDir(b.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || isTempName(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(b.dir, p)
		if err != nil {
			return fmt.Errorf("rel %s: %w", p, err)
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(out)
	return out, nil
}

func isTempName(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, ".tmp")
}
